package services

import (
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

const maxUsernameLen = 50

var accountFields = validator.New()

// checkAccount validates the username and email of a new or patched account.
// nil fields are not checked. Every entry point (HTTP, createuser) goes
// through here.
func checkAccount(username, email *string) error {
	fields := map[string]string{}
	if username != nil {
		switch u := strings.TrimSpace(*username); {
		case u == "":
			fields["username"] = "field required"
		case len(*username) > maxUsernameLen:
			fields["username"] = "must be at most 50 characters"
		}
	}
	if email != nil {
		if strings.TrimSpace(*email) == "" {
			fields["email"] = "field required"
		} else if accountFields.Var(*email, "email") != nil {
			fields["email"] = "must be a valid email address"
		}
	}
	if len(fields) > 0 {
		return common.Validation("Invalid user", fields)
	}
	return nil
}
