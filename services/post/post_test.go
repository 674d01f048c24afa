package post

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	commentRepo "wsid/database/repository/comment"
	postRepo "wsid/database/repository/post"
	voteRepo "wsid/database/repository/vote"
	"wsid/models"
	"wsid/utils"
)

type fakePostRepo struct {
	posts   map[string]*models.Post
	options map[string]*models.Option
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}, options: map[string]*models.Option{}}
}

func (r *fakePostRepo) Create(p *models.Post) error {
	clone := *p
	r.posts[p.ID] = &clone
	return nil
}

func (r *fakePostRepo) GetByID(id string) (*models.Post, error) {
	if p, ok := r.posts[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (r *fakePostRepo) SetFields(id string, fields map[string]interface{}) error {
	p := r.posts[id]
	for k, v := range fields {
		switch k {
		case "title":
			p.Title = v.(string)
		case "description":
			p.Description = v.(string)
		case "images":
			p.Images = v.([]string)
		case "updatedAt":
			p.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

func (r *fakePostRepo) Delete(id string) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) all() []models.Post {
	var out []models.Post
	for _, p := range r.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakePostRepo) List(q postRepo.ListQuery) ([]models.Post, int64, error) {
	var match []models.Post
	for _, p := range r.all() {
		if q.CreatedBy != "" && p.CreatedBy != q.CreatedBy {
			continue
		}
		if q.Search != "" && !strings.HasPrefix(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
			continue
		}
		match = append(match, p)
	}
	total := int64(len(match))
	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return match[start:end], total, nil
}

func (r *fakePostRepo) CreatedSince(since time.Time) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.all() {
		if !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) SearchByTitle(prefix string) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.all() {
		if strings.HasPrefix(strings.ToLower(p.Title), strings.ToLower(prefix)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) DeleteByCreator(userID string) error {
	for id, p := range r.posts {
		if p.CreatedBy == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

func (r *fakePostRepo) CreateOption(o *models.Option) error {
	clone := *o
	r.options[o.ID] = &clone
	return nil
}

func (r *fakePostRepo) GetOption(id string) (*models.Option, error) {
	if o, ok := r.options[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, nil
}

func (r *fakePostRepo) SetOptionFields(id string, fields map[string]interface{}) error {
	o := r.options[id]
	for k, v := range fields {
		switch k {
		case "votesCount":
			o.VotesCount = v.(int64)
		case "text":
			o.Text = v.(string)
		case "imageUrl":
			o.ImageURL = v.(string)
		}
	}
	return nil
}

func (r *fakePostRepo) DeleteOption(id string) error {
	delete(r.options, id)
	return nil
}

func (r *fakePostRepo) OptionsByPost(postID string) ([]models.Option, error) {
	var out []models.Option
	for _, o := range r.options {
		if o.PostID == postID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

func (r *fakePostRepo) DeleteOptionsByPost(postID string) error {
	for id, o := range r.options {
		if o.PostID == postID {
			delete(r.options, id)
		}
	}
	return nil
}

func (r *fakePostRepo) IncOptionVotes(id string, delta int64) error {
	r.options[id].VotesCount += delta
	return nil
}

func (r *fakePostRepo) AllOptions() ([]models.Option, error) {
	var out []models.Option
	for _, o := range r.options {
		out = append(out, *o)
	}
	return out, nil
}

type fakeVoteRepo struct {
	votes map[string]*models.Vote
	// blindExistenceCheck makes HasVoted report false so the unique-index
	// path in Create is the one that catches a duplicate.
	blindExistenceCheck bool
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: map[string]*models.Vote{}}
}

func (r *fakeVoteRepo) Create(v *models.Vote) error {
	for _, existing := range r.votes {
		if existing.PostID == v.PostID && existing.UserID == v.UserID {
			return &voteRepo.ErrDuplicateVote{PostID: v.PostID, UserID: v.UserID}
		}
	}
	clone := *v
	r.votes[v.ID] = &clone
	return nil
}

func (r *fakeVoteRepo) HasVoted(postID, userID string) (bool, error) {
	if r.blindExistenceCheck {
		return false, nil
	}
	v, _ := r.ByPostAndUser(postID, userID)
	return v != nil, nil
}

func (r *fakeVoteRepo) Find(postID, optionID, userID string) (*models.Vote, error) {
	for _, v := range r.votes {
		if v.PostID == postID && v.OptionID == optionID && v.UserID == userID {
			clone := *v
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeVoteRepo) ByPostAndUser(postID, userID string) (*models.Vote, error) {
	for _, v := range r.votes {
		if v.PostID == postID && v.UserID == userID {
			clone := *v
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeVoteRepo) Delete(id string) error {
	delete(r.votes, id)
	return nil
}

func (r *fakeVoteRepo) CountByPost(postID string) (int64, error) {
	var n int64
	for _, v := range r.votes {
		if v.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r *fakeVoteRepo) CountByPostSince(postID string, since time.Time) (int64, error) {
	var n int64
	for _, v := range r.votes {
		if v.PostID == postID && !v.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeVoteRepo) CountByOption(optionID string) (int64, error) {
	var n int64
	for _, v := range r.votes {
		if v.OptionID == optionID {
			n++
		}
	}
	return n, nil
}

func (r *fakeVoteRepo) DeleteByPost(postID string) error {
	for id, v := range r.votes {
		if v.PostID == postID {
			delete(r.votes, id)
		}
	}
	return nil
}

func (r *fakeVoteRepo) DeleteByOption(optionID string) error {
	for id, v := range r.votes {
		if v.OptionID == optionID {
			delete(r.votes, id)
		}
	}
	return nil
}

func (r *fakeVoteRepo) DeleteByUser(userID string) error {
	for id, v := range r.votes {
		if v.UserID == userID {
			delete(r.votes, id)
		}
	}
	return nil
}

// fakeCommentStore only tracks per-post comment counts; the post service
// never reads comment bodies.
type fakeCommentStore struct {
	byPost map[string][]time.Time
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{byPost: map[string][]time.Time{}}
}

func (r *fakeCommentStore) add(postID string, at time.Time) {
	r.byPost[postID] = append(r.byPost[postID], at)
}

func (r *fakeCommentStore) Create(*models.Comment) error                    { return nil }
func (r *fakeCommentStore) GetByID(string) (*models.Comment, error)         { return nil, nil }
func (r *fakeCommentStore) SetFields(string, map[string]interface{}) error  { return nil }
func (r *fakeCommentStore) RootsByPost(string) ([]models.Comment, error)    { return nil, nil }
func (r *fakeCommentStore) ByParent(string) ([]models.Comment, error)       { return nil, nil }
func (r *fakeCommentStore) ChildIDs(string) ([]string, error)               { return nil, nil }
func (r *fakeCommentStore) DeleteMany([]string) error                       { return nil }
func (r *fakeCommentStore) AddReply(string, string) error                   { return nil }
func (r *fakeCommentStore) RemoveReply(string, string) error                { return nil }
func (r *fakeCommentStore) React(string, commentRepo.ReactionChange) error  { return nil }
func (r *fakeCommentStore) CountByPost(postID string) (int64, error) {
	return int64(len(r.byPost[postID])), nil
}
func (r *fakeCommentStore) CountByPostSince(postID string, since time.Time) (int64, error) {
	var n int64
	for _, at := range r.byPost[postID] {
		if !at.Before(since) {
			n++
		}
	}
	return n, nil
}
func (r *fakeCommentStore) DeleteByPost(postID string) error {
	delete(r.byPost, postID)
	return nil
}
func (r *fakeCommentStore) DeleteByCreator(string) error      { return nil }
func (r *fakeCommentStore) All() ([]models.Comment, error)     { return nil, nil }

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, nil
}
func (r *fakeUserRepo) GetByEmail(string) (*models.User, error)    { return nil, nil }
func (r *fakeUserRepo) GetByUsername(string) (*models.User, error) { return nil, nil }
func (r *fakeUserRepo) Create(u *models.User) error {
	r.users[u.ID] = u
	return nil
}
func (r *fakeUserRepo) Update(*models.User) error                      { return nil }
func (r *fakeUserRepo) SetFields(string, map[string]interface{}) error { return nil }
func (r *fakeUserRepo) GetAll() ([]models.User, error)                 { return nil, nil }
func (r *fakeUserRepo) ByIDs(ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}
func (r *fakeUserRepo) SearchPrefix(string, string, int64) ([]models.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) TakenUsernames([]string) ([]string, error) { return nil, nil }
func (r *fakeUserRepo) ActiveExcludingEmail(string, int64) ([]models.User, error) {
	return nil, nil
}

type fakeStorage struct {
	uploads int
	deleted []string
}

func (s *fakeStorage) UploadFile(_ context.Context, localFilePath, destFolder string) (string, error) {
	s.uploads++
	return fmt.Sprintf("https://cdn.example.com/%s/%d.jpg", destFolder, s.uploads), nil
}

func (s *fakeStorage) DeleteFile(_ context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func newTestService() (*DefaultPostService, *fakePostRepo, *fakeVoteRepo, *fakeCommentStore, *fakeStorage) {
	posts := newFakePostRepo()
	votes := newFakeVoteRepo()
	comments := newFakeCommentStore()
	users := newFakeUserRepo()
	storage := &fakeStorage{}
	users.Create(&models.User{ID: "author-1", Name: "Alex", Status: true})
	users.Create(&models.User{ID: "viewer-1", Name: "Vic", Status: true})
	svc := &DefaultPostService{Posts: posts, Votes: votes, Comments: comments, Users: users, Storage: storage}
	return svc, posts, votes, comments, storage
}

func mustCreatePost(t *testing.T, svc *DefaultPostService, userID, title string) *PostView {
	t.Helper()
	view, err := svc.Create(context.Background(), userID, title, "pick one", nil, []OptionInput{
		{Text: "Option A"}, {Text: "Option B"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return view
}

func assertServiceError(t *testing.T, err error, wantCode int) {
	t.Helper()
	svcErr, ok := err.(*utils.ServiceError)
	if !ok {
		t.Fatalf("want *utils.ServiceError, got %v", err)
	}
	if svcErr.Code != wantCode {
		t.Errorf("status code = %d, want %d (message %q)", svcErr.Code, wantCode, svcErr.Message)
	}
}

func TestCreatePost(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	view := mustCreatePost(t, svc, "author-1", "Which jacket?")
	if len(view.Options) != 2 {
		t.Fatalf("got %d options, want 2", len(view.Options))
	}
	if view.Author == nil || view.Author.Name != "Alex" {
		t.Errorf("author snippet = %+v", view.Author)
	}
	if view.Images == nil {
		t.Error("images should marshal as an empty array, not null")
	}

	tests := []struct {
		name    string
		title   string
		options []OptionInput
	}{
		{"missing title", "  ", []OptionInput{{Text: "A"}, {Text: "B"}}},
		{"single option", "Pick", []OptionInput{{Text: "A"}}},
		{"blank option text", "Pick", []OptionInput{{Text: "A"}, {Text: "  "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "author-1", tt.title, "", nil, tt.options)
			if err == nil {
				t.Fatal("expected error")
			}
			assertServiceError(t, err, http.StatusBadRequest)
		})
	}
}

func TestUpdatePost(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	created := mustCreatePost(t, svc, "author-1", "Old title")

	if _, err := svc.Update(context.Background(), created.ID, "viewer-1", models.RoleUser, UpdateInput{Title: "hijack"}); err == nil {
		t.Fatal("non-author edit should fail")
	}

	updated, err := svc.Update(context.Background(), created.ID, "author-1", models.RoleUser, UpdateInput{Title: "New title"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "New title" || updated.Description != "pick one" {
		t.Errorf("after update: title=%q description=%q", updated.Title, updated.Description)
	}

	// Admins may edit anyone's post.
	if _, err := svc.Update(context.Background(), created.ID, "admin-9", models.RoleAdmin, UpdateInput{Description: "moderated"}); err != nil {
		t.Fatalf("admin Update() error = %v", err)
	}
}

func TestDeletePostCascades(t *testing.T) {
	svc, posts, votes, comments, _ := newTestService()
	created := mustCreatePost(t, svc, "author-1", "Doomed")
	if _, err := svc.CastVote(created.ID, created.Options[0].ID, "viewer-1"); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	comments.add(created.ID, time.Now())

	if err := svc.Delete(context.Background(), created.ID, "viewer-1", models.RoleUser); err == nil {
		t.Fatal("non-author delete should fail")
	}
	if err := svc.Delete(context.Background(), created.ID, "author-1", models.RoleUser); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if p, _ := posts.GetByID(created.ID); p != nil {
		t.Error("post still present")
	}
	if opts, _ := posts.OptionsByPost(created.ID); len(opts) != 0 {
		t.Errorf("options still present: %v", opts)
	}
	if n, _ := votes.CountByPost(created.ID); n != 0 {
		t.Errorf("votes still present: %d", n)
	}
	if n, _ := comments.CountByPost(created.ID); n != 0 {
		t.Errorf("comments still present: %d", n)
	}
}

func TestDeletePostRemovesMedia(t *testing.T) {
	svc, _, _, _, storage := newTestService()
	view, err := svc.Create(context.Background(), "author-1", "With media", "", []string{"/tmp/does-not-exist.jpg"}, []OptionInput{
		{Text: "A"}, {Text: "B"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if storage.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", storage.uploads)
	}
	if err := svc.Delete(context.Background(), view.ID, "author-1", models.RoleUser); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(storage.deleted) != 1 {
		t.Errorf("deleted media = %v, want the one uploaded post image", storage.deleted)
	}
}

func TestCastAndRetractVote(t *testing.T) {
	svc, posts, _, _, _ := newTestService()
	created := mustCreatePost(t, svc, "author-1", "Vote here")
	optionA := created.Options[0].ID
	optionB := created.Options[1].ID

	view, err := svc.CastVote(created.ID, optionA, "viewer-1")
	if err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if !view.HasVoted || view.VotedOptionID != optionA || view.VotesCount != 1 {
		t.Errorf("after vote: hasVoted=%v votedOption=%q votes=%d", view.HasVoted, view.VotedOptionID, view.VotesCount)
	}
	if opt, _ := posts.GetOption(optionA); opt.VotesCount != 1 {
		t.Errorf("option counter = %d, want 1", opt.VotesCount)
	}

	// One vote per post, whatever the option.
	_, err = svc.CastVote(created.ID, optionB, "viewer-1")
	if err == nil {
		t.Fatal("second vote should fail")
	}
	assertServiceError(t, err, http.StatusConflict)

	if _, err := svc.CastVote(created.ID, "missing-option", "author-1"); err == nil {
		t.Error("vote on unknown option should fail")
	}

	view, err = svc.RetractVote(created.ID, optionA, "viewer-1")
	if err != nil {
		t.Fatalf("RetractVote() error = %v", err)
	}
	if view.HasVoted || view.VotesCount != 0 {
		t.Errorf("after retract: hasVoted=%v votes=%d", view.HasVoted, view.VotesCount)
	}
	if opt, _ := posts.GetOption(optionA); opt.VotesCount != 0 {
		t.Errorf("option counter = %d, want 0", opt.VotesCount)
	}

	_, err = svc.RetractVote(created.ID, optionA, "viewer-1")
	if err == nil {
		t.Fatal("retracting a missing vote should fail")
	}
	assertServiceError(t, err, http.StatusNotFound)
}

func TestCastVoteDuplicateInsert(t *testing.T) {
	svc, _, votes, _, _ := newTestService()
	created := mustCreatePost(t, svc, "author-1", "Race")

	if _, err := svc.CastVote(created.ID, created.Options[0].ID, "viewer-1"); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}

	// Simulate a concurrent double-submit: the existence check misses, the
	// insert hits the unique index instead.
	votes.blindExistenceCheck = true
	_, err := svc.CastVote(created.ID, created.Options[1].ID, "viewer-1")
	if err == nil {
		t.Fatal("duplicate insert should surface as a conflict")
	}
	assertServiceError(t, err, http.StatusConflict)
}

func TestListPagination(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	for i := 0; i < 5; i++ {
		mustCreatePost(t, svc, "author-1", fmt.Sprintf("Post %d", i))
		time.Sleep(time.Millisecond)
	}

	page, err := svc.List(postRepo.ListQuery{Page: 1, PageSize: 2}, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 5 || len(page.Posts) != 2 {
		t.Errorf("total=%d len=%d, want 5 and 2", page.Total, len(page.Posts))
	}

	byAuthor, err := svc.List(postRepo.ListQuery{CreatedBy: "viewer-1"}, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if byAuthor.Total != 0 {
		t.Errorf("filter by creator returned %d posts", byAuthor.Total)
	}
}

func TestSearch(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	mustCreatePost(t, svc, "author-1", "Summer fits")
	mustCreatePost(t, svc, "author-1", "Winter coats")

	results, err := svc.Search("sum", "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Title != "Summer fits" {
		t.Errorf("search results = %+v", results)
	}

	// Queries under three characters match nothing.
	for _, q := range []string{"   ", "su"} {
		empty, err := svc.Search(q, "")
		if err != nil {
			t.Fatalf("Search(%q) error = %v", q, err)
		}
		if len(empty) != 0 {
			t.Errorf("Search(%q) returned %d results, want 0", q, len(empty))
		}
	}
}

func TestUpdatePostOptions(t *testing.T) {
	svc, posts, votes, _, _ := newTestService()
	created := mustCreatePost(t, svc, "author-1", "Editable")
	optionA := created.Options[0].ID
	optionB := created.Options[1].ID

	// Add a third option, rename the first.
	view, err := svc.Update(context.Background(), created.ID, "author-1", models.RoleUser, UpdateInput{
		Options: []OptionUpdate{
			{Text: "Option C"},
			{ID: optionA, Text: "Option A renamed"},
		},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(view.Options) != 3 {
		t.Fatalf("got %d options, want 3", len(view.Options))
	}
	if opt, _ := posts.GetOption(optionA); opt.Text != "Option A renamed" {
		t.Errorf("renamed option text = %q", opt.Text)
	}

	// Removing an option also drops its votes.
	if _, err := svc.CastVote(created.ID, optionB, "viewer-1"); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	view, err = svc.Update(context.Background(), created.ID, "author-1", models.RoleUser, UpdateInput{
		Options: []OptionUpdate{{ID: optionB, Remove: true}},
	})
	if err != nil {
		t.Fatalf("Update() removal error = %v", err)
	}
	if len(view.Options) != 2 {
		t.Fatalf("got %d options after removal, want 2", len(view.Options))
	}
	if n, _ := votes.CountByOption(optionB); n != 0 {
		t.Errorf("votes for removed option remain: %d", n)
	}

	// A post may not drop under the minimum option count.
	_, err = svc.Update(context.Background(), created.ID, "author-1", models.RoleUser, UpdateInput{
		Options: []OptionUpdate{{ID: optionA, Remove: true}},
	})
	if err == nil {
		t.Fatal("removal below the option minimum should fail")
	}
	assertServiceError(t, err, http.StatusBadRequest)

	if _, err := svc.Update(context.Background(), created.ID, "author-1", models.RoleUser, UpdateInput{
		Options: []OptionUpdate{{ID: "missing", Remove: true}},
	}); err == nil {
		t.Error("removing an unknown option should fail")
	}
}

func TestUpdatePostRemoveImages(t *testing.T) {
	svc, _, _, _, storage := newTestService()
	view, err := svc.Create(context.Background(), "author-1", "Pics", "",
		[]string{"/tmp/a.jpg", "/tmp/b.jpg"}, []OptionInput{{Text: "A"}, {Text: "B"}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(view.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(view.Images))
	}
	doomed := view.Images[0]

	updated, err := svc.Update(context.Background(), view.ID, "author-1", models.RoleUser, UpdateInput{
		RemoveImages: []string{doomed},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.Images) != 1 || updated.Images[0] == doomed {
		t.Errorf("images after removal = %v", updated.Images)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != doomed {
		t.Errorf("storage deletions = %v, want [%s]", storage.deleted, doomed)
	}
}

func TestTrendingRanksByRecentActivity(t *testing.T) {
	svc, _, _, comments, _ := newTestService()

	quiet := mustCreatePost(t, svc, "author-1", "Quiet")
	time.Sleep(time.Millisecond)
	busy := mustCreatePost(t, svc, "author-1", "Busy")
	time.Sleep(time.Millisecond)
	newest := mustCreatePost(t, svc, "author-1", "Newest")

	if _, err := svc.CastVote(busy.ID, busy.Options[0].ID, "viewer-1"); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	comments.add(busy.ID, time.Now())

	page, err := svc.Trending("", 1, 10)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(page.Posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(page.Posts))
	}
	if page.Posts[0].ID != busy.ID {
		t.Errorf("top post = %q, want the one with activity", page.Posts[0].Title)
	}
	// Zero-score posts tie; the newer one wins.
	if page.Posts[1].ID != newest.ID || page.Posts[2].ID != quiet.ID {
		t.Errorf("tie order = %q, %q; want newest first", page.Posts[1].Title, page.Posts[2].Title)
	}

	second, err := svc.Trending("", 2, 2)
	if err != nil {
		t.Fatalf("Trending() page 2 error = %v", err)
	}
	if second.Total != 3 || len(second.Posts) != 1 {
		t.Errorf("page 2: total=%d len=%d, want 3 and 1", second.Total, len(second.Posts))
	}
}

func TestTrendingIgnoresOldPosts(t *testing.T) {
	svc, posts, _, _, _ := newTestService()
	posts.Create(&models.Post{
		ID:        "ancient",
		Title:     "Ancient",
		CreatedBy: "author-1",
		CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
	})
	fresh := mustCreatePost(t, svc, "author-1", "Fresh")

	page, err := svc.Trending("", 1, 10)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(page.Posts) != 1 || page.Posts[0].ID != fresh.ID {
		t.Errorf("trending = %+v, want only the fresh post", page.Posts)
	}
}

func TestGetByIDViewerState(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	created := mustCreatePost(t, svc, "author-1", "Viewer state")
	if _, err := svc.CastVote(created.ID, created.Options[0].ID, "viewer-1"); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}

	asVoter, err := svc.GetByID(created.ID, "viewer-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !asVoter.HasVoted || asVoter.VotedOptionID != created.Options[0].ID {
		t.Errorf("voter view: hasVoted=%v votedOption=%q", asVoter.HasVoted, asVoter.VotedOptionID)
	}

	anon, err := svc.GetByID(created.ID, "")
	if err != nil {
		t.Fatalf("GetByID() anonymous error = %v", err)
	}
	if anon.HasVoted || anon.VotedOptionID != "" {
		t.Errorf("anonymous view: hasVoted=%v votedOption=%q", anon.HasVoted, anon.VotedOptionID)
	}

	_, err = svc.GetByID("missing", "")
	if err == nil {
		t.Fatal("unknown post should fail")
	}
	assertServiceError(t, err, http.StatusNotFound)
}
