package types

// Life domains the coach operates over. Webhook provisioning seeds one
// zero score per domain; plan generation only suggests tasks inside this set.
const (
	DomainHealth        = "Health"
	DomainWealth        = "Wealth"
	DomainCareer        = "Career"
	DomainRelationships = "Relationships"
	DomainBalance       = "Balance"
)

func LifeDomains() []string {
	return []string{
		DomainHealth,
		DomainWealth,
		DomainCareer,
		DomainRelationships,
		DomainBalance,
	}
}

func IsLifeDomain(domain string) bool {
	for _, d := range LifeDomains() {
		if d == domain {
			return true
		}
	}
	return false
}
