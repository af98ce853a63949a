package realtime

// TokenStore supplies the auth token used for the join handshake and
// the bearer auth of companion REST calls. The app owns token storage;
// the client only reads it, at connect time and per REST call.
type TokenStore interface {
	// Token returns the current auth token. ok is false when the user
	// is not authenticated; the client then treats Connect as a no-op.
	Token() (token string, ok bool)
}

// TokenFunc adapts a function to a TokenStore.
type TokenFunc func() (string, bool)

func (f TokenFunc) Token() (string, bool) { return f() }

// StaticToken is a fixed token, mainly for tests and tooling.
type StaticToken string

func (s StaticToken) Token() (string, bool) { return string(s), s != "" }

// URLResolver supplies the endpoints of the realtime socket and the
// REST API. Environments (dev, staging, prod) differ only here.
type URLResolver interface {
	SocketURL() string
	APIBaseURL() string
}

// StaticURLs is a fixed URLResolver.
type StaticURLs struct {
	Socket string
	API    string
}

func (u StaticURLs) SocketURL() string  { return u.Socket }
func (u StaticURLs) APIBaseURL() string { return u.API }
