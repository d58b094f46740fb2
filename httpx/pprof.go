package httpx

import "github.com/gin-contrib/pprof"

func (s *Server) initPprof() error {
	p := s.cfg.Pprof
	if !p.Enabled {
		return nil
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = defaultPprofPrefix
	}
	pprof.Register(s.engine, prefix)
	return nil
}
