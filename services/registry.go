package services

import "time"

// Registry holds every service, wired over one set of repositories.
type Registry struct {
	Counts   *CountProjector
	Feed     *FeedAssembler
	Likes    *LikeLedger
	Comments *CommentLedger
	Posts    *PostService
	Accounts *AccountService
	Clubs    *ClubService
}

// NewRegistry wires the services. cache may be nil to disable feed caching.
func NewRegistry(repos Repositories, tokens TokenIssuer, cache FeedCache, feedTTL time.Duration) *Registry {
	counts := NewCountProjector(repos.Likes, repos.Comments)
	feed := NewFeedAssembler(repos.Posts, counts, cache, feedTTL)
	return &Registry{
		Counts:   counts,
		Feed:     feed,
		Likes:    NewLikeLedger(repos.Posts, repos.Likes, counts, feed),
		Comments: NewCommentLedger(repos.Posts, repos.Comments, repos.Users, counts, feed),
		Posts:    NewPostService(repos.Posts, repos.Users, repos.Clubs, feed),
		Accounts: NewAccountService(repos.Users, tokens, feed),
		Clubs:    NewClubService(repos.Clubs, repos.Posts, feed),
	}
}
