package auth

import "strings"

// PublicPathPolicy is the static allow-list of paths exempt from
// authentication. A pattern is either an exact path or a prefix ending in
// "*". Every path not listed is protected by default.
type PublicPathPolicy struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPublicPathPolicy compiles the configured patterns.
func NewPublicPathPolicy(patterns []string) *PublicPathPolicy {
	policy := &PublicPathPolicy{exact: make(map[string]struct{}, len(patterns))}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "*") {
			policy.prefixes = append(policy.prefixes, strings.TrimSuffix(pattern, "*"))
			continue
		}
		policy.exact[pattern] = struct{}{}
	}
	return policy
}

// IsPublic reports whether the path is exempt from authentication.
func (p *PublicPathPolicy) IsPublic(path string) bool {
	if _, ok := p.exact[path]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
