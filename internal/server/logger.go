package server

import "log"

// debugf logs internal diagnostics when the verbose flag is set. Operational
// events (start, stop, broadcast failures) are logged unconditionally.
func (s *Server) debugf(format string, args ...any) {
	if !s.cfg.Verbose {
		return
	}
	log.Printf("DEBUG "+format, args...)
}
