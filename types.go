package scholar

import "fmt"

// Logger is the minimal logging surface the package depends on. The variadic
// args are key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// TokenService issues and validates signed session tokens.
type TokenService interface {
	Issue(payload map[string]any) (string, error)
	Validate(tokenString string) (*SessionClaims, error)
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }

func (defLogger) print(level, msg string, args ...any) {
	if len(args) == 0 {
		fmt.Printf("[%s] SCHOLAR %s\n", level, msg)
		return
	}
	fmt.Printf("[%s] SCHOLAR %s %v\n", level, msg, args)
}
