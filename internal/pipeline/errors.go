package pipeline

import "fmt"

// TransportError はリモート呼び出し自体の失敗です。(ネットワーク、
// タイムアウト、非2xx応答など)
type TransportError struct {
	Stage string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("stage %s: transport failure: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError は、リモート呼び出しは成功したものの応答が構造的に
// 不正だった場合の失敗です。(キー欠落、配列長不一致など)
// TransportError とはステージごとの回復方針が異なるため、呼び出し側が
// errors.As で判別できるよう型を分けています。
type ValidationError struct {
	Stage  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stage %s: invalid payload: %s", e.Stage, e.Reason)
}

func transportErr(stage string, err error) error {
	return &TransportError{Stage: stage, Err: err}
}

func validationErr(stage, format string, args ...any) error {
	return &ValidationError{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}
