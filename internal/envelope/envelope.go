// Package envelope extracts the structured analysis payload from an agent
// response whose nesting is not contractually fixed. The agent may return
// the payload directly, JSON-encoded inside a message field, inside a
// raw_response wrapper, or double-nested under repeated result keys, and
// the shape varies per call and per underlying model.
//
// Parsing is expressed as an ordered list of extraction strategies. Each
// strategy either yields a candidate payload or contributes nothing; a
// decode failure at any step is equivalent to that step contributing
// nothing. Parse never fails and never panics.
package envelope

import "encoding/json"

// extractStep inspects the envelope and the current candidate and returns
// a replacement candidate. ok is false when the step contributes nothing.
type extractStep func(env any, candidate any) (next any, ok bool)

// The steps run in order. Later steps refine the candidate produced by
// earlier ones; candidate-producing steps 2-4 only fire while no candidate
// is held yet.
var extractSteps = []extractStep{
	stepResponseResult,
	stepResponseMessage,
	stepRawResponse,
	stepDecodeCandidate,
	stepUnwrapResult,
	stepUnwrapResponseResult,
	stepDecodeCandidate,
}

// Parse locates the candidate analysis payload inside env. It returns nil
// when env is nil; otherwise it returns whatever candidate is held after
// all extraction steps, which may itself be nil, a string, or a structured
// value. The normalizer rejects anything that is not a map with a stocks
// field.
func Parse(env any) any {
	if env == nil {
		return nil
	}
	var candidate any
	for _, step := range extractSteps {
		if next, ok := step(env, candidate); ok {
			candidate = next
		}
	}
	return candidate
}

// ParseBytes decodes raw transport bytes and runs Parse over the result.
// Undecodable bytes are treated as a missing envelope.
func ParseBytes(raw []byte) any {
	var env any
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	return Parse(env)
}

// held reports whether a usable candidate is already in hand. Empty or
// zero-valued candidates count as absent so later strategies still fire.
func held(candidate any) bool {
	switch c := candidate.(type) {
	case nil:
		return false
	case string:
		return c != ""
	case bool:
		return c
	case float64:
		return c != 0
	default:
		return true
	}
}

// stepResponseResult tries envelope.response.result as the candidate.
func stepResponseResult(env any, candidate any) (any, bool) {
	if held(candidate) {
		return nil, false
	}
	v, ok := dig(env, "response", "result")
	return v, ok && held(v)
}

// stepResponseMessage decodes envelope.response.message as JSON.
func stepResponseMessage(env any, candidate any) (any, bool) {
	if held(candidate) {
		return nil, false
	}
	msg, ok := dig(env, "response", "message")
	if !ok {
		return nil, false
	}
	return decodeString(msg)
}

// stepRawResponse decodes envelope.raw_response, then prefers its
// response.result, then its result, then the decoded value itself.
func stepRawResponse(env any, candidate any) (any, bool) {
	if held(candidate) {
		return nil, false
	}
	raw, ok := dig(env, "raw_response")
	if !ok {
		return nil, false
	}
	decoded, ok := decodeString(raw)
	if !ok {
		return nil, false
	}
	if v, ok := dig(decoded, "response", "result"); ok && held(v) {
		return v, true
	}
	if v, ok := dig(decoded, "result"); ok && held(v) {
		return v, true
	}
	return decoded, true
}

// stepDecodeCandidate decodes the candidate when it is still an encoded
// string rather than a structured value.
func stepDecodeCandidate(env any, candidate any) (any, bool) {
	s, ok := candidate.(string)
	if !ok {
		return nil, false
	}
	return decodeString(s)
}

// stepUnwrapResult peels one extra result wrapper: some agent responses
// nest the payload once more under a result key holding a non-array
// structured value.
func stepUnwrapResult(env any, candidate any) (any, bool) {
	v, ok := dig(candidate, "result")
	if !ok || v == nil {
		return nil, false
	}
	if _, isMap := v.(map[string]any); !isMap {
		return nil, false
	}
	return v, true
}

// stepUnwrapResponseResult peels one extra envelope wrapper nested inside
// the candidate itself.
func stepUnwrapResponseResult(env any, candidate any) (any, bool) {
	v, ok := dig(candidate, "response", "result")
	return v, ok && v != nil
}

// dig walks nested string-keyed maps along keys. It reports false when any
// level is absent or not a map.
func dig(v any, keys ...string) (any, bool) {
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if v, ok = m[k]; !ok {
			return nil, false
		}
	}
	return v, true
}

// decodeString unmarshals v when it is a JSON-encoded string. Anything
// else, including malformed JSON, contributes nothing.
func decodeString(v any) (any, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}
