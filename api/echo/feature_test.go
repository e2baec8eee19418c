package echoapi

import (
	"net/http"
	"testing"

	"github.com/fractal-nyc/attendabot/core/feature"
	"github.com/fractal-nyc/attendabot/core/user"
)

func Test_featureApi(t *testing.T) {
	env := setupEnv(t, nil)

	instructor := createUser(t, env.userRepo, "Yacin", "yacin1", "yacin@fractal.nyc", []string{user.RoleInstructor})
	student := createUser(t, env.userRepo, "Ada", "adalove", "ada@fractal.nyc", user.StudentRoles)
	studentToken := getToken(t, student)
	instructorToken := getToken(t, instructor)

	var created feature.Request

	t.Run("student files a request", func(t *testing.T) {
		body := marshallObj(t, feature.NewRequest{Title: "Dark mode", Description: "The dashboard burns at night."})
		req, rec := newAuthRequest(http.MethodPost, "/v1/features", studentToken, body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		if !jsonUnmarshal(t, rec.Body.Bytes(), &created) {
			t.Fatal("could not decode created request")
		}
		if created.RequestedBy != student.ID {
			t.Errorf("RequestedBy = %s, want %s", created.RequestedBy, student.ID)
		}
		if created.Status != feature.StatusOpen {
			t.Errorf("Status = %s, want %s", created.Status, feature.StatusOpen)
		}
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		body := marshallObj(t, feature.NewRequest{Description: "no title"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/features", studentToken, body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("any authed user can list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/features", studentToken)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var reqs []feature.Request
		if jsonUnmarshal(t, rec.Body.Bytes(), &reqs) && len(reqs) != 1 {
			t.Errorf("len(requests) = %d, want 1", len(reqs))
		}
	})

	t.Run("student cannot change status", func(t *testing.T) {
		body := marshallObj(t, feature.UpdateRequest{Status: feature.StatusPlanned})
		req, rec := newAuthRequest(http.MethodPut, "/v1/features/"+created.ID, studentToken, body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("instructor triages", func(t *testing.T) {
		body := marshallObj(t, feature.UpdateRequest{Status: feature.StatusPlanned})
		req, rec := newAuthRequest(http.MethodPut, "/v1/features/"+created.ID, instructorToken, body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var updated feature.Request
		if jsonUnmarshal(t, rec.Body.Bytes(), &updated) && updated.Status != feature.StatusPlanned {
			t.Errorf("Status = %s, want %s", updated.Status, feature.StatusPlanned)
		}
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/features/nope", studentToken)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d, want %d; body %s", rec.Code, http.StatusNotFound, rec.Body.String())
		}
	})
}
