package model

// PollState remembers the newest commit handled by the poller
type PollState struct {
	LastProcessedSHA string `json:"lastProcessedSha"`
	LastUpdated      string `json:"lastUpdated"`
}

// CommitsSince returns the commits newer than lastSHA from a newest-first
// list. Without a known lastSHA, or when it fell out of the list, all
// commits are new.
func CommitsSince(commits []*Commit, lastSHA string) []*Commit {
	if lastSHA == "" {
		return commits
	}
	for i, c := range commits {
		if c.ID == lastSHA {
			return commits[:i]
		}
	}
	return commits
}
