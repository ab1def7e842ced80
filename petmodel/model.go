package petmodel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iterasys/petstore-test-harness/data"
)

// Status is the sale status of a pet. Values are not checked locally; anything else is sent
// to the API as-is.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
)

// Category is the category a pet belongs to.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tag is a label attached to a pet.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Pet is the request body for the create and update endpoints. It is not modified after it
// has been serialized.
type Pet struct {
	ID        int64    `json:"id"`
	Category  Category `json:"category"`
	Name      string   `json:"name"`
	PhotoURLs []string `json:"photoUrls"`
	Tags      []Tag    `json:"tags"`
	Status    Status   `json:"status"`
}

// ValidationError means the inputs for a Pet could not be turned into a consistent model.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid pet data: " + e.Message
}

// BuildPet assembles a Pet from already-typed parts.
func BuildPet(id int64, category Category, name string, photoURLs []string, tags []Tag, status Status) Pet {
	return Pet{
		ID:        id,
		Category:  category,
		Name:      name,
		PhotoURLs: photoURLs,
		Tags:      tags,
		Status:    status,
	}
}

// BuildTags splits semicolon-separated tag ids and names and pairs them by position. Both
// lists must have the same number of entries and every id must be an integer.
func BuildTags(tagIDs, tagNames string) ([]Tag, error) {
	ids := strings.Split(tagIDs, ";")
	names := strings.Split(tagNames, ";")
	if len(ids) != len(names) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("%d tag ids (%q) but %d tag names (%q)", len(ids), tagIDs, len(names), tagNames),
		}
	}
	tags := make([]Tag, 0, len(ids))
	for i, idText := range ids {
		id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("tag id %q is not an integer", idText)}
		}
		tags = append(tags, Tag{ID: id, Name: names[i]})
	}
	return tags, nil
}

// FromFixtureRow builds the Pet described by one fixture row. The single photo URL column
// becomes a one-element list, even when it is empty.
func FromFixtureRow(row data.FixtureRow) (Pet, error) {
	tags, err := BuildTags(row.TagIDs, row.TagNames)
	if err != nil {
		return Pet{}, fmt.Errorf("line %d: %w", row.Line, err)
	}
	return BuildPet(
		row.PetID,
		Category{ID: row.CategoryID, Name: row.CategoryName},
		row.PetName,
		[]string{row.PhotoURLs},
		tags,
		Status(row.Status),
	), nil
}

// MarshalIndented serializes a Pet as indented JSON, which is both the request body and what
// gets logged for inspection.
func MarshalIndented(pet Pet) ([]byte, error) {
	return json.MarshalIndent(pet, "", "  ")
}
