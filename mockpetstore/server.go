package mockpetstore

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iterasys/petstore-test-harness/framework"
	"github.com/iterasys/petstore-test-harness/petmodel"

	"github.com/gorilla/mux"
)

// DefaultBasePath matches the path of the public pet store's base URL.
const DefaultBasePath = "/v2"

// LoginMessagePrefix starts the message of every successful login response; the session token
// follows it.
const LoginMessagePrefix = "logged in user session:"

// apiResponse is the {code, type, message} body used for everything that is not a pet.
type apiResponse struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Server is an in-memory imitation of the pet store endpoints that the suite calls. It is not
// a general implementation of the API: it only has to answer the way the real service does for
// those requests, including its error bodies.
type Server struct {
	handler     http.Handler
	debugLogger framework.Logger
	pets        map[int64]petmodel.Pet
	nextID      int64
	now         func() time.Time
	lock        sync.Mutex
}

// NewServer creates a Server whose routes are under basePath (for instance "/v2"; empty means
// the root).
func NewServer(basePath string, debugLogger framework.Logger) *Server {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	s := &Server{
		debugLogger: debugLogger,
		pets:        make(map[int64]petmodel.Pet),
		nextID:      1,
		now:         time.Now,
	}

	router := mux.NewRouter()
	api := router
	if p := strings.TrimSuffix(basePath, "/"); p != "" {
		api = router.PathPrefix(p).Subrouter()
	}
	api.HandleFunc("/pet", s.serveAddPet).Methods("POST")
	api.HandleFunc("/pet", s.serveUpdatePet).Methods("PUT")
	api.HandleFunc("/pet/{petId}", s.serveGetPet).Methods("GET")
	api.HandleFunc("/pet/{petId}", s.serveDeletePet).Methods("DELETE")
	api.HandleFunc("/user/login", s.serveLogin).Methods("GET")
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.debugLogger.Printf("Unknown endpoint: %s %s", r.Method, r.URL)
		writeJSON(w, http.StatusNotFound, apiResponse{Code: http.StatusNotFound, Type: "unknown", Message: "not found"})
	})
	s.handler = router

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Pet returns the stored pet with the given id, if any.
func (s *Server) Pet(id int64) (petmodel.Pet, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	pet, ok := s.pets[id]
	return pet, ok
}

// PetIDs returns the ids of all stored pets in ascending order.
func (s *Server) PetIDs() []int64 {
	s.lock.Lock()
	ids := make([]int64, 0, len(s.pets))
	for id := range s.pets {
		ids = append(ids, id)
	}
	s.lock.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PutPet stores a pet directly, as if it had been created earlier.
func (s *Server) PutPet(pet petmodel.Pet) {
	s.lock.Lock()
	s.putPetLocked(pet)
	s.lock.Unlock()
}

func (s *Server) putPetLocked(pet petmodel.Pet) {
	if pet.ID >= s.nextID {
		s.nextID = pet.ID + 1
	}
	s.pets[pet.ID] = pet
}

func (s *Server) serveAddPet(w http.ResponseWriter, r *http.Request) {
	s.storePet(w, r, "Created")
}

func (s *Server) serveUpdatePet(w http.ResponseWriter, r *http.Request) {
	s.storePet(w, r, "Updated")
}

// The real service treats update as an upsert, so both verbs share this.
func (s *Server) storePet(w http.ResponseWriter, r *http.Request, verb string) {
	var pet petmodel.Pet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		s.debugLogger.Printf("Rejected pet body: %s", err)
		writeJSON(w, http.StatusBadRequest, apiResponse{Code: http.StatusBadRequest, Type: "unknown", Message: "bad input"})
		return
	}
	s.lock.Lock()
	if pet.ID == 0 {
		pet.ID = s.nextID
	}
	s.putPetLocked(pet)
	s.lock.Unlock()

	s.debugLogger.Printf("%s pet %d", verb, pet.ID)
	writeJSON(w, http.StatusOK, pet)
}

func (s *Server) serveGetPet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.petIDParam(w, r)
	if !ok {
		return
	}
	pet, found := s.Pet(id)
	if !found {
		writeJSON(w, http.StatusNotFound, apiResponse{Code: 1, Type: "error", Message: "Pet not found"})
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (s *Server) serveDeletePet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.petIDParam(w, r)
	if !ok {
		return
	}
	s.lock.Lock()
	_, found := s.pets[id]
	delete(s.pets, id)
	s.lock.Unlock()
	if !found {
		// the real service sends no body in this case
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.debugLogger.Printf("Deleted pet %d", id)
	writeJSON(w, http.StatusOK, apiResponse{Code: http.StatusOK, Type: "unknown", Message: strconv.FormatInt(id, 10)})
}

func (s *Server) serveLogin(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	session := s.now().UnixMilli()
	s.debugLogger.Printf("Login for user %q, session %d", query.Get("username"), session)

	expires := s.now().Add(time.Hour).UTC()
	w.Header().Set("X-Rate-Limit", "5000")
	w.Header().Set("X-Expires-After", expires.Format(http.TimeFormat))
	writeJSON(w, http.StatusOK, apiResponse{
		Code:    http.StatusOK,
		Type:    "unknown",
		Message: LoginMessagePrefix + strconv.FormatInt(session, 10),
	})
}

func (s *Server) petIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	text := mux.Vars(r)["petId"]
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiResponse{
			Code:    http.StatusNotFound,
			Type:    "unknown",
			Message: "java.lang.NumberFormatException: For input string: \"" + text + "\"",
		})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	data, _ := json.Marshal(value)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
