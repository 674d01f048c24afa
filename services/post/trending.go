package post

import (
	"os"
	"sort"
	"time"

	"wsid/models"
)

// trendingWindow bounds both post recency and the activity counted toward
// the trending score.
const trendingWindow = 7 * 24 * time.Hour

// Trending ranks posts created within the window by the votes and comments
// they attracted in that window, newest first on equal scores. The
// candidate set is small enough to score and paginate in memory.
func (s *DefaultPostService) Trending(viewerID string, page, pageSize int64) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	since := time.Now().Add(-trendingWindow)
	posts, err := s.Posts.CreatedSince(since)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]int64, len(posts))
	for _, p := range posts {
		votes, err := s.Votes.CountByPostSince(p.ID, since)
		if err != nil {
			return nil, err
		}
		comments, err := s.Comments.CountByPostSince(p.ID, since)
		if err != nil {
			return nil, err
		}
		scores[p.ID] = votes + comments
	}

	sort.SliceStable(posts, func(i, j int) bool {
		si, sj := scores[posts[i].ID], scores[posts[j].ID]
		if si != sj {
			return si > sj
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	total := int64(len(posts))
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	views, err := s.decorate(posts[start:end], viewerID)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: views, Total: total, Page: page, PageSize: pageSize}, nil
}

// decorate turns raw posts into viewer-specific views: options, counters,
// the viewer's vote, and author snippets from one batched lookup.
func (s *DefaultPostService) decorate(posts []models.Post, viewerID string) ([]PostView, error) {
	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.CreatedBy)
	}
	snippets, err := s.snippetsFor(authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		options, err := s.Posts.OptionsByPost(p.ID)
		if err != nil {
			return nil, err
		}
		if options == nil {
			options = []models.Option{}
		}
		votes, err := s.Votes.CountByPost(p.ID)
		if err != nil {
			return nil, err
		}
		comments, err := s.Comments.CountByPost(p.ID)
		if err != nil {
			return nil, err
		}

		view := PostView{
			ID:            p.ID,
			Title:         p.Title,
			Description:   p.Description,
			Images:        p.Images,
			Options:       options,
			VotesCount:    votes,
			CommentsCount: comments,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		}
		if view.Images == nil {
			view.Images = []string{}
		}
		if snippet, ok := snippets[p.CreatedBy]; ok {
			view.Author = &snippet
		}
		if viewerID != "" {
			vote, err := s.Votes.ByPostAndUser(p.ID, viewerID)
			if err != nil {
				return nil, err
			}
			if vote != nil {
				view.HasVoted = true
				view.VotedOptionID = vote.OptionID
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// snippetsFor maps user ids to display snippets with one batched lookup.
func (s *DefaultPostService) snippetsFor(ids []string) (map[string]models.UserSnippet, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	users, err := s.Users.ByIDs(unique)
	if err != nil {
		return nil, err
	}
	snippets := make(map[string]models.UserSnippet, len(users))
	for _, u := range users {
		snippets[u.ID] = models.UserSnippet{ID: u.ID, Name: u.Name, ProfilePicURL: u.ProfilePicURL}
	}
	return snippets, nil
}

// removeTempFiles clears handler-saved upload temp files.
func removeTempFiles(paths []string, options []OptionInput) {
	for _, path := range paths {
		if path != "" {
			os.Remove(path)
		}
	}
	for _, opt := range options {
		if opt.ImagePath != "" {
			os.Remove(opt.ImagePath)
		}
	}
}
