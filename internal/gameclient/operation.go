package gameclient

import "net/http"

// Operation describes one of the fixed game server endpoints.
type Operation struct {
	Name        string
	Method      string
	Path        string
	RequireAuth bool
}

var (
	OpCreateUser = Operation{Name: "create-user", Method: http.MethodPost, Path: "/user"}
	OpLogin      = Operation{Name: "login", Method: http.MethodPost, Path: "/login"}
	OpMove       = Operation{Name: "move", Method: http.MethodPost, Path: "/move", RequireAuth: true}
	OpLook       = Operation{Name: "look", Method: http.MethodGet, Path: "/look", RequireAuth: true}
	OpSetDoing   = Operation{Name: "set-activity", Method: http.MethodPost, Path: "/doing", RequireAuth: true}
	OpUseItem    = Operation{Name: "use-item", Method: http.MethodPost, Path: "/use", RequireAuth: true}
)

// Operations lists every operation in the order a session normally uses them.
var Operations = []Operation{OpCreateUser, OpLogin, OpMove, OpLook, OpSetDoing, OpUseItem}

// StatusNotSent is the status code of an Outcome whose request never left the
// client.
const StatusNotSent = 0

// Outcome is the result of an operation. Either the exchange completed and
// StatusCode/Body hold the server's answer, or Preflight is set, StatusCode is
// StatusNotSent and nothing was sent.
type Outcome struct {
	Op         Operation
	StatusCode int
	Body       string
	Preflight  error
}

// Sent reports whether the request reached the transport.
func (o Outcome) Sent() bool {
	return o.Preflight == nil
}

// OK reports whether the server answered 200.
func (o Outcome) OK() bool {
	return o.StatusCode == http.StatusOK
}

// Message returns the server's "message", falling back to "detail".
func (o Outcome) Message() (string, bool) {
	if v, ok := Lookup(o.Body, "message"); ok {
		return v, true
	}
	return Lookup(o.Body, "detail")
}
