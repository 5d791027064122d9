package user

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/darasa/core"
)

// similarity ratio at or above which a password is considered a near copy
// of a user attribute
const pwdMaxSimilarity = .7

var errPasswordTooSimilar = core.NewValidationError(nil, core.FieldError{
	Field: "password", Error: "password cannot be similar to your name or email",
})

// checkPasswordSimilarity rejects passwords that nearly match one of the
// user's own attributes; the strongpwd complexity rules alone cannot catch
// "MyEmail@test.cd1" style passwords.
func checkPasswordSimilarity(pwd string, attrs ...string) error {
	pwdChars := strings.Split(pwd, "")
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		matcher := difflib.NewMatcher(pwdChars, strings.Split(attr, ""))
		if matcher.QuickRatio() >= pwdMaxSimilarity {
			return errPasswordTooSimilar
		}
	}
	return nil
}
