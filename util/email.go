package util

import "strings"

// Mailbox providers whose local part is canonicalized by NormalizeEmail.
var (
	gmailDomains   = map[string]bool{"gmail.com": true, "googlemail.com": true}
	outlookDomains = map[string]bool{"hotmail.com": true, "outlook.com": true, "live.com": true, "msn.com": true}
	yahooDomains   = map[string]bool{"yahoo.com": true, "ymail.com": true, "rocketmail.com": true}
	icloudDomains  = map[string]bool{"icloud.com": true, "me.com": true, "mac.com": true}
)

// NormalizeEmail lowercases an address and canonicalizes well-known
// providers: gmail drops dots and +tags and maps googlemail.com to gmail.com,
// outlook and icloud drop +tags, yahoo drops -tags.
//
// Input without exactly one "@" is returned lowercased and trimmed.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return email
	}

	switch {
	case gmailDomains[domain]:
		local = cutSubaddress(local, "+")
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case outlookDomains[domain], icloudDomains[domain]:
		local = cutSubaddress(local, "+")
	case yahooDomains[domain]:
		local = cutSubaddress(local, "-")
	}
	if local == "" {
		return email
	}
	return local + "@" + domain
}

func cutSubaddress(local, sep string) string {
	if before, _, found := strings.Cut(local, sep); found {
		return before
	}
	return local
}
