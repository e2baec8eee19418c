package user

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

// allRolesValidation checks that provided user roles are all in AllRoles
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	sorted := append([]string(nil), AllRoles...)
	sort.Strings(sorted)
	for _, role := range roles {
		idx := sort.SearchStrings(sorted, role)
		if idx >= len(sorted) || sorted[idx] != role {
			return false
		}
	}
	return true
}

// newUserStructValidation enforces the password policy against the whole
// NewUser payload so that similarity to name/username/email can be checked.
func newUserStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUser)
	if !ok {
		return
	}
	pwd := nu.Password
	if pwd == "" {
		return // "required" covers this
	}

	if len(pwd) < pwdMinLen {
		sl.ReportError(nu.Password, "password", "Password", pwdMinLenTag, "")
	}
	if isAllNumeric(pwd) {
		sl.ReportError(nu.Password, "password", "Password", pwdNotAllNumTag, "")
	}
	for _, attr := range []string{nu.Name, nu.Username, nu.Email} {
		if attr == "" {
			continue
		}
		matcher := difflib.NewMatcher(
			difflib.SplitLines(strings.ToLower(pwd)),
			difflib.SplitLines(strings.ToLower(attr)),
		)
		if matcher.QuickRatio() > pwdMaxSim {
			sl.ReportError(nu.Password, "password", "Password", pwdAttrSimTag, "")
			break
		}
	}
}

func isAllNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
