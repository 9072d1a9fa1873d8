// Package ignore filters out senders that should never become leads, such
// as the company's own domain or transactional automation.
package ignore

import (
	"strings"

	"go.uber.org/zap"
)

// Checker reports whether a sender domain is on the ignore list
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new ignore-list checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make([]string, len(domains))
	for i, domain := range domains {
		normalized[i] = strings.ToLower(strings.TrimSpace(domain))
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized sender ignore list", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsIgnored checks if the sender's domain is on the ignore list. Subdomains
// of an ignored domain are ignored too.
func (c *Checker) IsIgnored(address string) bool {
	if len(c.domains) == 0 {
		return false
	}

	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return false
	}
	domain := strings.ToLower(strings.Trim(address[at+1:], "<> "))

	for _, ignored := range c.domains {
		if domain == ignored || strings.HasSuffix(domain, "."+ignored) {
			if c.logger != nil {
				c.logger.Debug("Sender domain is ignored",
					zap.String("domain", domain),
					zap.String("address", address))
			}
			return true
		}
	}

	return false
}
