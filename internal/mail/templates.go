package mail

import "fmt"

// Message kinds carried on the outbox stream.
const (
	KindWelcome              = "welcome"
	KindNewRating            = "new-rating"
	KindPasswordReset        = "password-reset"
	KindPasswordResetSuccess = "password-reset-success"
)

// Render produces the subject and plain-text body for a message kind.
// Unknown kinds return an error so the consumer can drop them loudly.
func Render(kind string, data map[string]string) (subject, body string, err error) {
	username := data["username"]

	switch kind {
	case KindWelcome:
		return "Welcome!",
			fmt.Sprintf("Hi %s,\n\nWelcome aboard. Your account is ready.\n", username),
			nil
	case KindNewRating:
		return "New rating received!",
			fmt.Sprintf("Hi %s,\n\nOne of your uploads just received a %s-star rating.\n", username, data["rating"]),
			nil
	case KindPasswordReset:
		return "Password Reset",
			fmt.Sprintf("Hi %s,\n\nUse this token to reset your password:\n\n%s\n\nIf you did not request this, ignore this email.\n", username, data["token"]),
			nil
	case KindPasswordResetSuccess:
		return "Your password has been changed",
			fmt.Sprintf("Hi %s,\n\nYour password was just changed. If this was not you, contact support immediately.\n", username),
			nil
	default:
		return "", "", fmt.Errorf("unknown mail kind %q", kind)
	}
}
