package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"team-match-system/models"
)

// fakeDirectory is an in-memory directory service behind httptest, enough to
// exercise the profile and skill round trips.
type fakeDirectory struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	skills   map[string][]models.UserSkill
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		profiles: make(map[string]models.Profile),
		skills:   make(map[string][]models.UserSkill),
	}
}

func (d *fakeDirectory) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/profiles/", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Path[len("/api/profiles/"):]
		d.mu.Lock()
		defer d.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			p, ok := d.profiles[userID]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(p)
		case http.MethodPut:
			var p models.Profile
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			d.profiles[userID] = p
			w.WriteHeader(http.StatusOK)
		}
	})
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		// /api/users/{id}/skills
		path := r.URL.Path[len("/api/users/"):]
		const suffix = "/skills"
		if len(path) <= len(suffix) || path[len(path)-len(suffix):] != suffix {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		userID := path[:len(path)-len(suffix)]
		d.mu.Lock()
		defer d.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(d.skills[userID])
		case http.MethodPut:
			var skills []models.UserSkill
			if err := json.NewDecoder(r.Body).Decode(&skills); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			d.skills[userID] = skills
			w.WriteHeader(http.StatusOK)
		}
	})
	return mux
}

func TestDirectorySkillRoundTrip(t *testing.T) {
	dir := newFakeDirectory()
	srv := httptest.NewServer(dir.handler())
	defer srv.Close()

	client := NewDirectoryClient(srv.URL)
	ctx := context.Background()

	want := []models.UserSkill{
		{UserID: "user-1", SkillID: 3, SkillName: "Go", Category: "backend", Proficiency: "advanced"},
		{UserID: "user-1", SkillID: 7, SkillName: "Figma", Category: "design"},
	}
	if err := client.PutUserSkills(ctx, "token", "user-1", want); err != nil {
		t.Fatalf("PutUserSkills() = %v, want nil", err)
	}

	got, err := client.GetUserSkills(ctx, "token", "user-1")
	if err != nil {
		t.Fatalf("GetUserSkills() = %v, want nil", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d skills, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skills[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDirectoryProfileRoundTrip(t *testing.T) {
	dir := newFakeDirectory()
	srv := httptest.NewServer(dir.handler())
	defer srv.Close()

	client := NewDirectoryClient(srv.URL)
	ctx := context.Background()

	want := models.Profile{
		UserID:   "user-1",
		FullName: "Kim Mina",
		Bio:      "Backend developer looking for a hackathon team",
		IsPublic: true,
	}
	if err := client.PutProfile(ctx, "token", &want); err != nil {
		t.Fatalf("PutProfile() = %v, want nil", err)
	}

	got, err := client.GetProfile(ctx, "token", "user-1")
	if err != nil {
		t.Fatalf("GetProfile() = %v, want nil", err)
	}
	if got.FullName != want.FullName || got.Bio != want.Bio || got.IsPublic != want.IsPublic {
		t.Errorf("profile = %+v, want %+v", got, want)
	}
}

func TestDirectoryGetProfileMissing(t *testing.T) {
	srv := httptest.NewServer(newFakeDirectory().handler())
	defer srv.Close()

	client := NewDirectoryClient(srv.URL)
	_, err := client.GetProfile(context.Background(), "token", "nobody")
	if !models.IsKind(err, models.KindInvalidState) {
		t.Errorf("GetProfile(missing) kind = %s, want INVALID_STATE", models.KindOf(err))
	}
}
