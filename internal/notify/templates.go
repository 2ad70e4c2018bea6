package notify

import "fmt"

type Kind string

const (
	BookingRequested Kind = "booking_requested"
	BookingApproved  Kind = "booking_approved"
	BookingCancelled Kind = "booking_cancelled"
	SessionStarted   Kind = "session_started"
)

// Vars fills a template. Missing keys render as empty strings.
type Vars map[string]string

type template struct {
	subject string
	render  func(v Vars) string
}

var templates = map[Kind]template{
	BookingRequested: {
		subject: "New live session request",
		render: func(v Vars) string {
			return fmt.Sprintf(`Hi,

You have a new live session request.

Date: %s
Time: %s
Duration: %s minutes

Open your dashboard to approve or reject it.

- HubContent Team`, v["date"], v["time"], v["duration"])
		},
	},
	BookingApproved: {
		subject: "Your live session is confirmed",
		render: func(v Vars) string {
			return fmt.Sprintf(`Hi,

Your live session was approved.

Date: %s
Time: %s
Duration: %s minutes

You can join up to 5 minutes before the start.

- HubContent Team`, v["date"], v["time"], v["duration"])
		},
	},
	BookingCancelled: {
		subject: "Your live session was cancelled",
		render: func(v Vars) string {
			return fmt.Sprintf(`Hi,

Your live session on %s at %s was cancelled.

Reason: %s

- HubContent Team`, v["date"], v["time"], v["reason"])
		},
	},
	SessionStarted: {
		subject: "Your live session has started",
		render: func(v Vars) string {
			return fmt.Sprintf(`Hi,

Your live session is open. It ends at %s.

- HubContent Team`, v["ends_at"])
		},
	},
}

func Render(kind Kind, vars Vars) (subject, body string, err error) {
	t, ok := templates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}
	if vars == nil {
		vars = Vars{}
	}
	return t.subject, t.render(vars), nil
}
