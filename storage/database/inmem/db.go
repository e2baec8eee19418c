// Package inmemdb provides map-backed repositories for tests and for
// running the API without a database file.
package inmemdb

import (
	"sync"

	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/feature"
	"github.com/fractal-nyc/attendabot/core/message"
	"github.com/fractal-nyc/attendabot/core/user"
)

type DB struct {
	mutex    sync.RWMutex
	users    map[string]*user.User
	cohorts  map[string]*cohort.Cohort
	rosters  map[string][]cohort.Student
	messages map[string]*message.Message
	features map[string]*feature.Request
}

func NewDB() *DB {
	return &DB{
		users:    make(map[string]*user.User),
		cohorts:  make(map[string]*cohort.Cohort),
		rosters:  make(map[string][]cohort.Student),
		messages: make(map[string]*message.Message),
		features: make(map[string]*feature.Request),
	}
}
