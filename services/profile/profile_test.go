package profile

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	commentRepo "wsid/database/repository/comment"
	postRepo "wsid/database/repository/post"
	"wsid/models"
	"wsid/services/post"
	"wsid/utils"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(u *models.User) error {
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(u *models.User) error {
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) SetFields(id string, fields map[string]interface{}) error {
	u := r.users[id]
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "dateOfBirth":
			u.DateOfBirth = v.(string)
		case "profilePicUrl":
			u.ProfilePicURL = v.(string)
		case "status":
			u.Status = v.(bool)
		case "updatedAt":
			u.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

func (r *fakeUserRepo) GetAll() ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) ByIDs(ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SearchPrefix(field, prefix string, limit int64) ([]models.User, error) {
	prefix = strings.ToLower(prefix)
	var out []models.User
	for _, u := range r.users {
		if !u.Status {
			continue
		}
		var value string
		switch field {
		case "name":
			value = u.Name
		case "username":
			value = u.Username
		case "email":
			value = u.Email
		}
		if strings.HasPrefix(strings.ToLower(value), prefix) {
			out = append(out, *u)
		}
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeUserRepo) TakenUsernames(candidates []string) ([]string, error) {
	var taken []string
	for _, name := range candidates {
		if u, _ := r.GetByUsername(name); u != nil {
			taken = append(taken, name)
		}
	}
	return taken, nil
}

func (r *fakeUserRepo) ActiveExcludingEmail(email string, limit int64) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if !u.Status || u.Email == email {
			continue
		}
		out = append(out, *u)
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

type fakeSocialRepo struct {
	follows map[string]bool // followerID|followingID
	likes   map[string]bool // userID|targetID
	subs    map[string]bool
}

func newFakeSocialRepo() *fakeSocialRepo {
	return &fakeSocialRepo{follows: map[string]bool{}, likes: map[string]bool{}, subs: map[string]bool{}}
}

func edge(a, b string) string { return a + "|" + b }

func (r *fakeSocialRepo) GetFollow(followerID, followingID string) (*models.Follow, error) {
	if r.follows[edge(followerID, followingID)] {
		return &models.Follow{FollowerID: followerID, FollowingID: followingID}, nil
	}
	return nil, nil
}

func (r *fakeSocialRepo) CreateFollow(f *models.Follow) error {
	r.follows[edge(f.FollowerID, f.FollowingID)] = true
	return nil
}

func (r *fakeSocialRepo) DeleteFollow(followerID, followingID string) error {
	delete(r.follows, edge(followerID, followingID))
	return nil
}

func (r *fakeSocialRepo) FollowingSet(followerID string, candidateIDs []string) (map[string]bool, error) {
	set := map[string]bool{}
	for _, id := range candidateIDs {
		if r.follows[edge(followerID, id)] {
			set[id] = true
		}
	}
	return set, nil
}

func (r *fakeSocialRepo) CountFollowers(userID string) (int64, error) {
	var n int64
	for key := range r.follows {
		if strings.HasSuffix(key, "|"+userID) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSocialRepo) CountFollowing(userID string) (int64, error) {
	var n int64
	for key := range r.follows {
		if strings.HasPrefix(key, userID+"|") {
			n++
		}
	}
	return n, nil
}

func (r *fakeSocialRepo) CountLikesReceived(userID string) (int64, error) {
	var n int64
	for key := range r.likes {
		if strings.HasSuffix(key, "|"+userID) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSocialRepo) GetLike(userID, targetUserID string) (*models.ProfileLike, error) {
	if r.likes[edge(userID, targetUserID)] {
		return &models.ProfileLike{UserID: userID, TargetUserID: targetUserID}, nil
	}
	return nil, nil
}

func (r *fakeSocialRepo) CreateLike(l *models.ProfileLike) error {
	r.likes[edge(l.UserID, l.TargetUserID)] = true
	return nil
}

func (r *fakeSocialRepo) DeleteLike(userID, targetUserID string) error {
	delete(r.likes, edge(userID, targetUserID))
	return nil
}

func (r *fakeSocialRepo) DeleteAllForUser(userID string) error {
	for key := range r.follows {
		if strings.HasPrefix(key, userID+"|") || strings.HasSuffix(key, "|"+userID) {
			delete(r.follows, key)
		}
	}
	for key := range r.likes {
		if strings.HasPrefix(key, userID+"|") || strings.HasSuffix(key, "|"+userID) {
			delete(r.likes, key)
		}
	}
	return nil
}

func (r *fakeSocialRepo) SubscriptionExists(email string) (bool, error) {
	return r.subs[email], nil
}

func (r *fakeSocialRepo) CreateSubscription(sub *models.Subscription) error {
	r.subs[sub.Email] = true
	return nil
}

type fakeTokenRepo struct {
	byUser map[string]int
}

func (r *fakeTokenRepo) Save(t *models.RefreshToken) error {
	r.byUser[t.UserID]++
	return nil
}

func (r *fakeTokenRepo) Exists(string) (bool, error) { return false, nil }

func (r *fakeTokenRepo) DeleteByUser(userID string) error {
	delete(r.byUser, userID)
	return nil
}

type fakeRegRepo struct {
	emails map[string]bool
}

func (r *fakeRegRepo) GetByEmail(string) (*models.PendingRegistration, error) { return nil, nil }
func (r *fakeRegRepo) Upsert(rec *models.PendingRegistration) error {
	r.emails[rec.Email] = true
	return nil
}
func (r *fakeRegRepo) SetFields(string, map[string]interface{}) error { return nil }
func (r *fakeRegRepo) DeleteByEmail(email string) error {
	delete(r.emails, email)
	return nil
}

// fakePostService tracks posts per creator; List and Delete are the only
// operations the account sweep exercises.
type fakePostService struct {
	posts map[string]string // postID -> creatorID
}

func (s *fakePostService) Create(context.Context, string, string, string, []string, []post.OptionInput) (*post.PostView, error) {
	return nil, nil
}
func (s *fakePostService) Update(context.Context, string, string, string, post.UpdateInput) (*post.PostView, error) {
	return nil, nil
}

func (s *fakePostService) Delete(_ context.Context, postID, userID, role string) error {
	creator, ok := s.posts[postID]
	if !ok {
		return utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
	}
	if creator != userID && role != models.RoleAdmin {
		return utils.NewServiceError(http.StatusForbidden, utils.MsgUnauthorisedAccess)
	}
	delete(s.posts, postID)
	return nil
}

func (s *fakePostService) GetByID(string, string) (*post.PostView, error) { return nil, nil }

func (s *fakePostService) List(q postRepo.ListQuery, _ string) (*post.PostPage, error) {
	var views []post.PostView
	for id, creator := range s.posts {
		if q.CreatedBy != "" && creator != q.CreatedBy {
			continue
		}
		views = append(views, post.PostView{ID: id})
	}
	return &post.PostPage{Posts: views, Total: int64(len(views)), Page: q.Page, PageSize: q.PageSize}, nil
}

func (s *fakePostService) Search(string, string) ([]post.PostView, error) { return nil, nil }
func (s *fakePostService) Trending(string, int64, int64) (*post.PostPage, error) {
	return nil, nil
}
func (s *fakePostService) CastVote(string, string, string) (*post.PostView, error) {
	return nil, nil
}
func (s *fakePostService) RetractVote(string, string, string) (*post.PostView, error) {
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

type testEnv struct {
	svc     *DefaultProfileService
	users   *fakeUserRepo
	social  *fakeSocialRepo
	tokens  *fakeTokenRepo
	posts   *fakePostService
	storage *fakeStorage
	votes   *stubVoteRepo
	comm    *stubCommentRepo
}

type stubVoteRepo struct {
	byUser map[string]int
}

func (r *stubVoteRepo) Create(*models.Vote) error                    { return nil }
func (r *stubVoteRepo) HasVoted(string, string) (bool, error)        { return false, nil }
func (r *stubVoteRepo) Find(string, string, string) (*models.Vote, error) {
	return nil, nil
}
func (r *stubVoteRepo) ByPostAndUser(string, string) (*models.Vote, error) {
	return nil, nil
}
func (r *stubVoteRepo) Delete(string) error                    { return nil }
func (r *stubVoteRepo) CountByPost(string) (int64, error)      { return 0, nil }
func (r *stubVoteRepo) CountByPostSince(string, time.Time) (int64, error) {
	return 0, nil
}
func (r *stubVoteRepo) CountByOption(string) (int64, error) { return 0, nil }
func (r *stubVoteRepo) DeleteByPost(string) error           { return nil }
func (r *stubVoteRepo) DeleteByOption(string) error         { return nil }
func (r *stubVoteRepo) DeleteByUser(userID string) error {
	delete(r.byUser, userID)
	return nil
}

type stubCommentRepo struct {
	byCreator map[string]int
}

func (r *stubCommentRepo) Create(*models.Comment) error                   { return nil }
func (r *stubCommentRepo) GetByID(string) (*models.Comment, error)        { return nil, nil }
func (r *stubCommentRepo) SetFields(string, map[string]interface{}) error { return nil }
func (r *stubCommentRepo) RootsByPost(string) ([]models.Comment, error)   { return nil, nil }
func (r *stubCommentRepo) ByParent(string) ([]models.Comment, error)      { return nil, nil }
func (r *stubCommentRepo) ChildIDs(string) ([]string, error)              { return nil, nil }
func (r *stubCommentRepo) DeleteMany([]string) error                      { return nil }
func (r *stubCommentRepo) AddReply(string, string) error                  { return nil }
func (r *stubCommentRepo) RemoveReply(string, string) error               { return nil }
func (r *stubCommentRepo) React(string, commentRepo.ReactionChange) error { return nil }
func (r *stubCommentRepo) CountByPost(string) (int64, error)              { return 0, nil }
func (r *stubCommentRepo) CountByPostSince(string, time.Time) (int64, error) {
	return 0, nil
}
func (r *stubCommentRepo) DeleteByPost(string) error { return nil }
func (r *stubCommentRepo) DeleteByCreator(userID string) error {
	delete(r.byCreator, userID)
	return nil
}
func (r *stubCommentRepo) All() ([]models.Comment, error) { return nil, nil }

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	social := newFakeSocialRepo()
	tokens := &fakeTokenRepo{byUser: map[string]int{}}
	pending := &fakeRegRepo{emails: map[string]bool{}}
	postSvc := &fakePostService{posts: map[string]string{}}
	storage := &fakeStorage{}
	votes := &stubVoteRepo{byUser: map[string]int{}}
	comm := &stubCommentRepo{byCreator: map[string]int{}}

	svc := &DefaultProfileService{
		Users:    users,
		Social:   social,
		Tokens:   tokens,
		Pending:  pending,
		Comments: comm,
		Votes:    votes,
		PostSvc:  postSvc,
		Storage:  storage,
	}
	return &testEnv{svc: svc, users: users, social: social, tokens: tokens, posts: postSvc, storage: storage, votes: votes, comm: comm}
}

func addUser(env *testEnv, id, name, username string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3r$ecret"), bcrypt.MinCost)
	env.users.Create(&models.User{
		ID:           id,
		Name:         name,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       true,
		CreatedAt:    time.Now(),
	})
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

func TestViewProfile(t *testing.T) {
	env := newTestEnv()
	addUser(env, "target", "Tess", "tess")
	addUser(env, "viewer", "Vic", "vic")
	addUser(env, "other", "Omar", "omar")

	env.social.CreateFollow(&models.Follow{FollowerID: "viewer", FollowingID: "target"})
	env.social.CreateFollow(&models.Follow{FollowerID: "other", FollowingID: "target"})
	env.social.CreateFollow(&models.Follow{FollowerID: "target", FollowingID: "other"})
	env.social.CreateLike(&models.ProfileLike{UserID: "other", TargetUserID: "target"})

	view, err := env.svc.ViewProfile("target", "viewer")
	if err != nil {
		t.Fatalf("ViewProfile() error = %v", err)
	}
	if view.FollowersCount != 2 || view.FollowingCount != 1 || view.LikesCount != 1 {
		t.Errorf("counts: followers=%d following=%d likes=%d", view.FollowersCount, view.FollowingCount, view.LikesCount)
	}
	if !view.IsFollowing || view.HasLiked {
		t.Errorf("viewer state: isFollowing=%v hasLiked=%v", view.IsFollowing, view.HasLiked)
	}

	// Looking at your own profile carries no relationship flags.
	own, err := env.svc.ViewProfile("target", "target")
	if err != nil {
		t.Fatalf("ViewProfile() own error = %v", err)
	}
	if own.IsFollowing || own.HasLiked {
		t.Error("own profile should not report follow or like state")
	}

	if _, err := env.svc.ViewProfile("ghost", ""); err == nil {
		t.Error("unknown profile should fail")
	}

	// Soft-deleted accounts look like missing ones.
	env.users.SetFields("target", map[string]interface{}{"status": false})
	_, err = env.svc.ViewProfile("target", "viewer")
	if err == nil {
		t.Fatal("deactivated profile should fail")
	}
	assertServiceError(t, err, http.StatusNotFound)
}

func TestEditProfile(t *testing.T) {
	env := newTestEnv()
	addUser(env, "u1", "Old Name", "oldname")

	updated, err := env.svc.EditProfile(context.Background(), "u1", EditInput{Name: "New Name", Bio: "hello"})
	if err != nil {
		t.Fatalf("EditProfile() error = %v", err)
	}
	if updated.Name != "New Name" || updated.Bio != "hello" {
		t.Errorf("after edit: name=%q bio=%q", updated.Name, updated.Bio)
	}
	if updated.Username != "oldname" {
		t.Errorf("username changed to %q", updated.Username)
	}

	// A new picture replaces and cleans up the old one.
	first, err := env.svc.EditProfile(context.Background(), "u1", EditInput{ProfilePicPath: "/tmp/pic-a.jpg"})
	if err != nil {
		t.Fatalf("EditProfile() first pic error = %v", err)
	}
	second, err := env.svc.EditProfile(context.Background(), "u1", EditInput{ProfilePicPath: "/tmp/pic-b.jpg"})
	if err != nil {
		t.Fatalf("EditProfile() second pic error = %v", err)
	}
	if second.ProfilePicURL == first.ProfilePicURL {
		t.Error("picture URL did not change")
	}
	if len(env.storage.deleted) != 1 || env.storage.deleted[0] != first.ProfilePicURL {
		t.Errorf("old picture not cleaned up: %v", env.storage.deleted)
	}
}

func TestToggleFollow(t *testing.T) {
	env := newTestEnv()
	addUser(env, "a", "Ana", "ana")
	addUser(env, "b", "Ben", "ben")

	following, err := env.svc.ToggleFollow("a", "b")
	if err != nil || !following {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", following, err)
	}
	following, err = env.svc.ToggleFollow("a", "b")
	if err != nil || following {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", following, err)
	}

	_, err = env.svc.ToggleFollow("a", "a")
	if err == nil {
		t.Fatal("self-follow should fail")
	}
	assertServiceError(t, err, http.StatusBadRequest)

	if _, err := env.svc.ToggleFollow("a", "ghost"); err == nil {
		t.Error("following a missing user should fail")
	}
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv()
	addUser(env, "a", "Ana", "ana")
	addUser(env, "b", "Ben", "ben")

	liked, err := env.svc.ToggleLike("a", "b")
	if err != nil || !liked {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", liked, err)
	}
	liked, err = env.svc.ToggleLike("a", "b")
	if err != nil || liked {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", liked, err)
	}

	_, err = env.svc.ToggleLike("a", "a")
	if err == nil {
		t.Fatal("liking your own profile should fail")
	}
	assertServiceError(t, err, http.StatusBadRequest)
}

func TestSearchUsers(t *testing.T) {
	env := newTestEnv()
	addUser(env, "viewer", "Vic", "vic")
	addUser(env, "u1", "Alice", "wonder")
	addUser(env, "u2", "Bob", "alicefan") // username matches the query too
	addUser(env, "u3", "Carol", "carol")
	env.social.CreateFollow(&models.Follow{FollowerID: "viewer", FollowingID: "u1"})

	results, err := env.svc.SearchUsers("alice", "viewer")
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (name and username match, deduped)", len(results))
	}
	byID := map[string]UserResult{}
	for _, r := range results {
		byID[r.ID] = r
	}
	if !byID["u1"].IsFollowing {
		t.Error("followed user should be annotated")
	}
	if byID["u2"].IsFollowing {
		t.Error("unfollowed user should not be annotated")
	}

	// The caller never appears in their own results.
	self, err := env.svc.SearchUsers("vic", "viewer")
	if err != nil {
		t.Fatalf("SearchUsers() self error = %v", err)
	}
	if len(self) != 0 {
		t.Errorf("self search returned %d results", len(self))
	}

	empty, err := env.svc.SearchUsers("  ", "viewer")
	if err != nil || len(empty) != 0 {
		t.Errorf("blank query = (%v, %v), want empty", empty, err)
	}
}

func TestTrendingUsers(t *testing.T) {
	env := newTestEnv()
	addUser(env, "viewer", "Vic", "vic")
	addUser(env, "popular", "Pop", "pop")
	addUser(env, "liked", "Liz", "liz")
	addUser(env, "nobody", "Nat", "nat")

	env.social.CreateFollow(&models.Follow{FollowerID: "viewer", FollowingID: "popular"})
	env.social.CreateFollow(&models.Follow{FollowerID: "nobody", FollowingID: "popular"})
	env.social.CreateLike(&models.ProfileLike{UserID: "viewer", TargetUserID: "liked"})

	results, err := env.svc.TrendingUsers("viewer", 2)
	if err != nil {
		t.Fatalf("TrendingUsers() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "popular" || results[1].ID != "liked" {
		t.Errorf("order = %s, %s; want popular then liked", results[0].ID, results[1].ID)
	}
	if !results[0].IsFollowing {
		t.Error("viewer follows the top user; annotation missing")
	}
	for _, r := range results {
		if r.ID == "viewer" {
			t.Error("viewer should be excluded from trending")
		}
	}
}

func TestDeleteSelf(t *testing.T) {
	env := newTestEnv()
	addUser(env, "u1", "Doom", "doom")
	addUser(env, "friend", "Fay", "fay")
	env.tokens.byUser["u1"] = 2
	env.social.CreateFollow(&models.Follow{FollowerID: "u1", FollowingID: "friend"})
	env.social.CreateFollow(&models.Follow{FollowerID: "friend", FollowingID: "u1"})
	env.posts.posts["p1"] = "u1"
	env.posts.posts["p2"] = "u1"
	env.posts.posts["keep"] = "friend"
	env.votes.byUser["u1"] = 3
	env.comm.byCreator["u1"] = 4

	err := env.svc.DeleteSelf(context.Background(), "u1", "wrong password")
	if err == nil {
		t.Fatal("wrong password should fail")
	}
	assertServiceError(t, err, http.StatusUnauthorized)

	if err := env.svc.DeleteSelf(context.Background(), "u1", "Sup3r$ecret"); err != nil {
		t.Fatalf("DeleteSelf() error = %v", err)
	}

	u, _ := env.users.GetByID("u1")
	if u.Status {
		t.Error("account should be deactivated")
	}
	if _, ok := env.tokens.byUser["u1"]; ok {
		t.Error("sessions should be revoked")
	}
	if n, _ := env.social.CountFollowers("u1"); n != 0 {
		t.Error("incoming follows should be removed")
	}
	if n, _ := env.social.CountFollowing("u1"); n != 0 {
		t.Error("outgoing follows should be removed")
	}
	if _, ok := env.posts.posts["p1"]; ok {
		t.Error("own posts should be deleted")
	}
	if _, ok := env.posts.posts["keep"]; !ok {
		t.Error("other users' posts must survive")
	}
	if _, ok := env.votes.byUser["u1"]; ok {
		t.Error("votes should be deleted")
	}
	if _, ok := env.comm.byCreator["u1"]; ok {
		t.Error("comments should be deleted")
	}

	// A second attempt sees a deactivated account.
	err = env.svc.DeleteSelf(context.Background(), "u1", "Sup3r$ecret")
	if err == nil {
		t.Fatal("deleting an already removed account should fail")
	}
	assertServiceError(t, err, http.StatusNotFound)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv()
	addUser(env, "mortal", "Mo", "mo")
	addUser(env, "root", "Root", "root")
	env.users.users["root"].Role = models.RoleAdmin

	err := env.svc.AdminDeleteUser(context.Background(), "root")
	if err == nil {
		t.Fatal("deleting an admin should fail")
	}
	assertServiceError(t, err, http.StatusForbidden)

	if err := env.svc.AdminDeleteUser(context.Background(), "mortal"); err != nil {
		t.Fatalf("AdminDeleteUser() error = %v", err)
	}
	u, _ := env.users.GetByID("mortal")
	if u.Status {
		t.Error("account should be deactivated")
	}
}
