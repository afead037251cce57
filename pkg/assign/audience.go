package assign

import "arbiter-hq/arbiter/pkg/catalog"

// Matcher resolves experiment audience membership. The zero value is ready
// to use.
type Matcher struct {
	hasher Hasher
}

// InAudience reports whether userID belongs to aud.
//
// Percentage audiences bucket the bare user id rather than an
// experiment-qualified key, so a user's percentile is the same across every
// experiment. The new_users and premium_users kinds always return false:
// matching them needs account signals this process does not have. Unknown
// kinds also return false.
func (m Matcher) InAudience(userID string, aud catalog.Audience) bool {
	switch aud.Kind {
	case catalog.AudienceAll:
		return true
	case catalog.AudiencePercentage:
		return m.hasher.Bucket(userID) < aud.Percentage
	case catalog.AudienceUserIDs:
		for _, id := range aud.UserIDs {
			if id == userID {
				return true
			}
		}
		return false
	default:
		return false
	}
}
