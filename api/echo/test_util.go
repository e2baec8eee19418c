package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/briefing"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/curriculum"
	"github.com/fractal-nyc/attendabot/core/feature"
	"github.com/fractal-nyc/attendabot/core/message"
	"github.com/fractal-nyc/attendabot/core/user"
	summarysvc "github.com/fractal-nyc/attendabot/services/summary"
	inmemdb "github.com/fractal-nyc/attendabot/storage/database/inmem"
)

// testMailService records messages synchronously so tests can assert on
// recipients without racing the console service's send goroutines.
type testMailService struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*testMailService)(nil)

func (svc *testMailService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, msg := range messages {
		svc.sent = append(svc.sent, *msg)
	}
}

func (svc *testMailService) Sent() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.EmailMessage(nil), svc.sent...)
}

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type testEnv struct {
	server   *Server
	conf     *core.Config
	userRepo user.Repository
	users    *user.Service
	cohorts  *cohort.Service
	messages *message.Service
	features *feature.Service
	mail     *testMailService
}

func testConfig() *core.Config {
	return &core.Config{
		AppName:   "attendabot",
		TestMode:  true,
		SecretKey: []byte("secret"),
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Bot: core.BotConfig{
			Timezone:  "America/New_York",
			UTCOffset: "-05:00",
		},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
}

func newTestTranslator(t *testing.T) ut.Translator {
	t.Helper()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, ok := uni.GetTranslator("en")
	if !ok {
		t.Fatal("en translator not found")
	}
	return translator
}

func setupEnv(t *testing.T, table curriculum.Table) *testEnv {
	t.Helper()

	conf := testConfig()
	logger := testLogger{}
	db := inmemdb.NewDB()

	validate := validator.New()
	translator := newTestTranslator(t)
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	userRepo := inmemdb.NewUserRepository(db)
	mailSvc := &testMailService{}
	usrSvc := user.NewService(userRepo, mailSvc, conf)
	cohortSvc := cohort.NewService(inmemdb.NewCohortRepository(db))
	msgSvc := message.NewService(inmemdb.NewMessageRepository(db))
	featSvc := feature.NewService(inmemdb.NewFeatureRepository(db))
	briefSvc := briefing.NewService(cohortSvc, msgSvc, summarysvc.NewConsoleService(), mailSvc, table, conf, logger)

	server := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		CohortSvc:   cohortSvc,
		MessageSvc:  msgSvc,
		FeatureSvc:  featSvc,
		BriefingSvc: briefSvc,
		Validate:    validate,
		Translator:  translator,
	})

	return &testEnv{
		server:   server,
		conf:     conf,
		userRepo: userRepo,
		users:    usrSvc,
		cohorts:  cohortSvc,
		messages: msgSvc,
		features: featSvc,
		mail:     mailSvc,
	}
}

func createUser(t *testing.T, repo user.Repository, name, uname, email string, roles []string) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	active := true
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  &active,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonUnmarshal(t *testing.T, data []byte, obj interface{}) bool {
	t.Helper()

	if err := json.Unmarshal(data, obj); err != nil {
		t.Errorf("jsonUnmarshal() failed: %v; data %s", err, data)
		return false
	}
	return true
}

func jsonEqual(t *testing.T, b1, b2 []byte) bool {
	t.Helper()

	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		t.Fatalf("jsonEqual() failed: %v", err)
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		t.Fatalf("jsonEqual() failed: %v", err)
	}
	if reflect.DeepEqual(j1, j2) {
		return true
	}
	if j1 == nil || j2 == nil {
		return false
	}
	return assert.ElementsMatch(t, j1, j2)
}
