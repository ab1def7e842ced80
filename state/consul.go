package state

import (
	"context"

	"github.com/iterasys/petstore-test-harness/framework/opt"

	consul "github.com/hashicorp/consul/api"
)

// ConsulStore keeps one run's values under a Consul KV prefix named after the run id.
type ConsulStore struct {
	consul *consul.Client
	prefix string
}

// NewConsulStore creates a client for the Consul agent at address. An empty address means the
// Consul client's own default, which honors CONSUL_HTTP_ADDR.
func NewConsulStore(address, runID string) (*ConsulStore, error) {
	config := consul.DefaultConfig()
	if address != "" {
		config.Address = address
	}
	client, err := consul.NewClient(config)
	if err != nil {
		return nil, err
	}
	return &ConsulStore{consul: client, prefix: namespacePrefix + "/" + runID + "/"}, nil
}

func (c *ConsulStore) Get(ctx context.Context, key string) (string, error) {
	pair, _, err := c.consul.KV().Get(c.prefix+key, (&consul.QueryOptions{}).WithContext(ctx))
	if err != nil || pair == nil {
		return valueOrMissing(key, opt.None[string](), err)
	}
	return valueOrMissing(key, opt.Some(string(pair.Value)), nil)
}

func (c *ConsulStore) Set(ctx context.Context, key, value string) error {
	_, err := c.consul.KV().Put(&consul.KVPair{Key: c.prefix + key, Value: []byte(value)},
		(&consul.WriteOptions{}).WithContext(ctx))
	return err
}

func (c *ConsulStore) Reset(ctx context.Context) error {
	_, err := c.consul.KV().DeleteTree(c.prefix, (&consul.WriteOptions{}).WithContext(ctx))
	return err
}

func (c *ConsulStore) Close() error { return nil }
