// Package sentryx wires services to Sentry and picks the client flavour
// (long-running server or single-invocation function) from the environment.
package sentryx

import "os"

// FunctionEnvVar is set by the function runtime for every invocation.
const FunctionEnvVar = "AWS_LAMBDA_FUNCTION_NAME"

// Flavor is the hosting model of the current process.
type Flavor string

const (
	FlavorAuto     Flavor = ""         // detect from the environment
	FlavorServer   Flavor = "server"   // request-serving process
	FlavorFunction Flavor = "function" // single-invocation serverless function
)

func (f Flavor) String() string {
	if f == FlavorAuto {
		return "auto"
	}
	return string(f)
}

// LookupFunc reads one environment variable. os.Getenv satisfies it.
type LookupFunc func(key string) string

// Classify reports FlavorFunction when the function signal is non-empty in
// the given environment and FlavorServer otherwise. A nil lookup is an empty
// environment.
func Classify(lookup LookupFunc) Flavor {
	if lookup != nil && lookup(FunctionEnvVar) != "" {
		return FlavorFunction
	}
	return FlavorServer
}

// Detect classifies the process environment.
func Detect() Flavor {
	return Classify(os.Getenv)
}

// Resolve returns override unless it is FlavorAuto, in which case the
// environment decides.
func Resolve(override Flavor, lookup LookupFunc) Flavor {
	if override != FlavorAuto {
		return override
	}
	return Classify(lookup)
}

// MapEnv adapts an environment snapshot to a LookupFunc.
func MapEnv(env map[string]string) LookupFunc {
	return func(key string) string { return env[key] }
}
