package httpx

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// PyroscopeGinLabels tags profiles collected while serving a request with its
// method and route template.
func PyroscopeGinLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		pyroscope.TagWrapper(
			c.Request.Context(),
			pyroscope.Labels(
				"http.method", c.Request.Method,
				"http.route", route,
			),
			func(ctx context.Context) {
				c.Request = c.Request.WithContext(ctx)
				c.Next()
			},
		)
	}
}

func profileTypes(p ProfilingConfig) []pyroscope.ProfileType {
	types := []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocObjects,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseObjects,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}
	if p.MutexRate > 0 {
		types = append(types, pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration)
	}
	if p.BlockRate > 0 {
		types = append(types, pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration)
	}
	return types
}

func (s *Server) initProfiling() error {
	p := s.cfg.Profiling
	if !p.Enabled {
		return nil
	}
	if p.ServerAddress == "" {
		return errors.New("pyroscope start: server address is required")
	}

	if p.MutexRate > 0 {
		runtime.SetMutexProfileFraction(p.MutexRate)
	}
	if p.BlockRate > 0 {
		runtime.SetBlockProfileRate(p.BlockRate)
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: s.cfg.Name,
		ServerAddress:   p.ServerAddress,
		Tags:            p.Tags,
		ProfileTypes:    profileTypes(p),
	})
	if err != nil {
		return fmt.Errorf("pyroscope start: %w", err)
	}

	s.registerStopper(func(context.Context) error {
		return profiler.Stop()
	})

	if p.TagByRoute {
		s.engine.Use(PyroscopeGinLabels())
	}
	s.log.Info("continuous profiling enabled", "server", p.ServerAddress)
	return nil
}
