package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/fractal-nyc/attendabot/core/user"
)

func createUserWithPassword(t *testing.T, env *testEnv, name, uname, email, pwd string, roles []string) user.User {
	t.Helper()

	usr := createUser(t, env.userRepo, name, uname, email, roles)
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := env.userRepo.UpdateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	return usr
}

func Test_userApi_login(t *testing.T) {
	env := setupEnv(t, nil)

	usr := createUserWithPassword(t, env, "Yacin", "yacin1", "yacin@fractal.nyc", "LordOfTheRings", []string{user.RoleInstructor})

	deactivated := createUserWithPassword(t, env, "Gone", "gone42", "gone@fractal.nyc", "LordOfTheRings", nil)
	deactivated.SetActive(false)
	if _, err := env.userRepo.UpdateUser(context.Background(), deactivated); err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}

	tests := []struct {
		name     string
		data     LoginRequest
		wantCode int
	}{
		{name: "unknown user", data: LoginRequest{Username: "nobody", Password: "x"}, wantCode: http.StatusUnauthorized},
		{name: "wrong password", data: LoginRequest{Username: usr.Username, Password: "wrong"}, wantCode: http.StatusUnauthorized},
		{name: "deactivated account", data: LoginRequest{Username: deactivated.Username, Password: "LordOfTheRings"}, wantCode: http.StatusUnauthorized},
		{name: "missing password", data: LoginRequest{Username: usr.Username}, wantCode: http.StatusBadRequest},
		{name: "login with username", data: LoginRequest{Username: usr.Username, Password: "LordOfTheRings"}, wantCode: http.StatusOK},
		{name: "login with email", data: LoginRequest{Username: usr.Email, Password: "LordOfTheRings"}, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/login", "", marshallObj(t, tt.data))
			env.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if rec.Code == http.StatusOK {
				var resp LoginResponse
				if jsonUnmarshal(t, rec.Body.Bytes(), &resp) && resp.Token == "" {
					t.Error("login response has empty token")
				}
			}
		})
	}
}

func Test_userApi_register(t *testing.T) {
	env := setupEnv(t, nil)

	admin := createUser(t, env.userRepo, "Andrew", "andrew1", "andrew@fractal.nyc", user.AdminRoles)
	instructor := createUser(t, env.userRepo, "Yacin", "yacin1", "yacin@fractal.nyc", []string{user.RoleInstructor})

	newUser := func(uname, email string, roles []string) []byte {
		return marshallObj(t, user.NewUser{
			Name:            "New Student",
			Username:        uname,
			Email:           email,
			Password:        "LordOfTheRings",
			PasswordConfirm: "LordOfTheRings",
			Roles:           roles,
		})
	}

	tests := []struct {
		name     string
		token    string
		body     []byte
		wantCode int
	}{
		{name: "anonymous is rejected", body: newUser("grace1", "grace@fractal.nyc", user.StudentRoles), wantCode: http.StatusUnauthorized},
		{name: "instructor is forbidden", token: getToken(t, instructor), body: newUser("grace1", "grace@fractal.nyc", user.StudentRoles), wantCode: http.StatusForbidden},
		{name: "admin registers a student", token: getToken(t, admin), body: newUser("grace1", "grace@fractal.nyc", user.StudentRoles), wantCode: http.StatusCreated},
		{name: "duplicate username", token: getToken(t, admin), body: newUser("grace1", "other@fractal.nyc", user.StudentRoles), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func Test_userApi_queryRoles(t *testing.T) {
	env := setupEnv(t, nil)

	admin := createUser(t, env.userRepo, "Andrew", "andrew1", "andrew@fractal.nyc", user.AdminRoles)

	req, rec := newAuthRequest(http.MethodGet, "/v1/users/roles", getToken(t, admin))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
	}
	if !jsonEqual(t, rec.Body.Bytes(), marshallObj(t, user.AllRoles)) {
		t.Errorf("roles = %s", rec.Body.String())
	}
}

func Test_userApi_retrieve(t *testing.T) {
	env := setupEnv(t, nil)

	admin := createUser(t, env.userRepo, "Andrew", "andrew1", "andrew@fractal.nyc", user.AdminRoles)
	ada := createUser(t, env.userRepo, "Ada", "adalove", "ada@fractal.nyc", user.StudentRoles)
	grace := createUser(t, env.userRepo, "Grace", "gracehop", "grace@fractal.nyc", user.StudentRoles)

	tests := []struct {
		name     string
		token    string
		id       string
		wantCode int
	}{
		{name: "own profile", token: getToken(t, ada), id: ada.ID, wantCode: http.StatusOK},
		{name: "someone else's profile is hidden", token: getToken(t, ada), id: grace.ID, wantCode: http.StatusNotFound},
		{name: "admin sees anyone", token: getToken(t, admin), id: grace.ID, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/"+tt.id, tt.token)
			env.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if rec.Code == http.StatusOK {
				var got user.User
				if jsonUnmarshal(t, rec.Body.Bytes(), &got) && got.ID != tt.id {
					t.Errorf("retrieved user ID = %s, want %s", got.ID, tt.id)
				}
			}
		})
	}
}
