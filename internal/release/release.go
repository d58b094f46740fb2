package release

import "strings"

// Name resolves the release reported to the error tracker.
// An explicit release wins; otherwise the image tag is used. Tags that parse
// as vX.Y.Z become "<service>@X.Y.Z", anything else is passed through as-is.
func Name(service, explicit, imageTag string) string {
	if r := strings.TrimSpace(explicit); r != "" {
		return r
	}
	tag := strings.TrimSpace(imageTag)
	if tag == "" {
		return ""
	}
	v, ok := Parse(tag)
	if !ok {
		return tag
	}
	if service == "" {
		return v.Plain()
	}
	return service + "@" + v.Plain()
}
