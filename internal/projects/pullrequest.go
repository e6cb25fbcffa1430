package projects

import "context"

// Pull request states reported by gh pr view.
const (
	PullRequestOpen   = "OPEN"
	PullRequestClosed = "CLOSED"
	PullRequestMerged = "MERGED"
)

// GetPullRequestState returns the state of the pull request at url.
func (s *Service) GetPullRequestState(ctx context.Context, url string) (string, error) {
	out, err := s.run(ctx, "pr", "view", url, "--json", "state")
	if err != nil {
		return "", err
	}

	var resp struct {
		State string `json:"state"`
	}
	if err := decode(out, &resp); err != nil {
		return "", err
	}
	return resp.State, nil
}
