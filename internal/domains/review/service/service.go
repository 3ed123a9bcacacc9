package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"reviews-web/internal/domains/review/access"
	"reviews-web/internal/domains/review/draft"
	"reviews-web/internal/domains/review/model"
	"reviews-web/internal/domains/review/repository"
	"reviews-web/internal/domains/review/view"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

// reviewService holds the page state: the last fetched list and the votes the
// current user has cast. Both are replaced wholesale, never patched in place
// by a request that has not succeeded.
type reviewService struct {
	repo     repository.ReviewRepository
	uploader repository.Uploader
	who      access.Identity

	mu       sync.RWMutex
	reviews  []model.Review
	loaded   bool
	votes    map[int64]model.VoteValue
	votesFor int64 // user id the vote map belongs to
}

func NewReviewService(
	repo repository.ReviewRepository,
	uploader repository.Uploader,
	who access.Identity,
) ServiceInterface {
	return &reviewService{
		repo:     repo,
		uploader: uploader,
		who:      who,
		votes:    map[int64]model.VoteValue{},
	}
}

// =====================================================
// LIST
// =====================================================

func (s *reviewService) Load(ctx context.Context) error {
	reviews, err := s.repo.ListReviews(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch reviews")
		return err
	}

	user, authed := s.who.CurrentUser()
	votes := map[int64]model.VoteValue{}
	if authed {
		for i := range reviews {
			if v, ok := reviews[i].VoteBy(user.ID); ok {
				votes[reviews[i].ID] = v
			}
		}
	}

	s.mu.Lock()
	s.reviews = reviews
	s.loaded = true
	s.votes = votes
	s.votesFor = user.ID
	s.mu.Unlock()

	log.Debug().Int("count", len(reviews)).Int("votes", len(votes)).Msg("Reviews loaded")
	return nil
}

func (s *reviewService) Page(q view.Query) model.PageResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projected := view.Apply(s.reviews, q)
	cards := make([]model.ReviewCard, 0, len(projected))
	for _, r := range projected {
		cards = append(cards, s.cardLocked(r))
	}

	return model.PageResponse{
		Reviews: cards,
		Total:   len(s.reviews),
		Matched: len(cards),
		Search:  q.Search,
		Rating:  q.Rating,
		Sort:    q.Sort,
	}
}

func (s *reviewService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// =====================================================
// VOTES
// =====================================================

func (s *reviewService) Vote(ctx context.Context, id int64, value model.VoteValue) (*model.ReviewCard, error) {
	if !value.Valid() {
		return nil, model.ErrInvalidVote
	}
	user, ok := s.who.CurrentUser()
	if !ok {
		return nil, model.ErrNotAuthenticated
	}

	s.mu.RLock()
	existing := s.voteLocked(user.ID, id)
	s.mu.RUnlock()
	if !access.CanVote(s.who, existing) {
		return nil, model.ErrAlreadyVoted
	}

	updated, err := s.repo.VoteReview(ctx, id, value)
	if err != nil {
		log.Warn().Err(err).Int64("review_id", id).Msg("Vote rejected")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.votesFor != user.ID {
		s.votes = map[int64]model.VoteValue{}
		s.votesFor = user.ID
	}
	s.votes[id] = value
	s.replaceLocked(*updated)

	card := s.cardLocked(*updated)
	return &card, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *reviewService) Delete(ctx context.Context, id int64) error {
	if !access.Authenticated(s.who) {
		return model.ErrNotAuthenticated
	}

	s.mu.RLock()
	idx := s.indexLocked(id)
	var target model.Review
	if idx >= 0 {
		target = s.reviews[idx]
	}
	s.mu.RUnlock()

	if idx >= 0 && !access.CanModify(target, s.who) {
		return model.ErrForbidden
	}

	if err := s.repo.DeleteReview(ctx, id); err != nil {
		log.Warn().Err(err).Int64("review_id", id).Msg("Delete failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		next := make([]model.Review, 0, len(s.reviews)-1)
		next = append(next, s.reviews[:i]...)
		next = append(next, s.reviews[i+1:]...)
		s.reviews = next
	}
	delete(s.votes, id)

	log.Info().Int64("review_id", id).Msg("Review deleted")
	return nil
}

// =====================================================
// SUBMISSION
// =====================================================

func (s *reviewService) NewDraft() *draft.Draft {
	return draft.New()
}

func (s *reviewService) ForEdit(ctx context.Context, id int64) (*draft.Draft, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	idx := s.indexLocked(id)
	var target model.Review
	if idx >= 0 {
		target = s.reviews[idx]
	}
	s.mu.RUnlock()

	if idx < 0 {
		return nil, model.ErrReviewNotFound
	}
	if !access.CanModify(target, s.who) {
		return nil, model.ErrForbidden
	}
	return draft.FromReview(target), nil
}

func (s *reviewService) Submit(ctx context.Context, d *draft.Draft) (*model.Review, error) {
	if !access.Authenticated(s.who) {
		return nil, model.ErrNotAuthenticated
	}

	saved, err := d.Submit(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("submit review %d: server returned no record", d.ReviewID())
	}

	s.mu.Lock()
	s.mergeLocked(*saved)
	s.mu.Unlock()

	log.Info().Int64("review_id", saved.ID).Bool("update", d.ReviewID() != 0).Msg("Review saved")
	return saved, nil
}

func (s *reviewService) Upload(ctx context.Context, filename, contentType string, data []byte) (*model.UploadResult, error) {
	if !access.Authenticated(s.who) {
		return nil, model.ErrNotAuthenticated
	}

	result, err := s.uploader.UploadFile(ctx, filename, contentType, data)
	if err != nil {
		return nil, err
	}

	if result.Review != nil {
		s.mu.Lock()
		s.mergeLocked(*result.Review)
		s.mu.Unlock()
	}
	return result, nil
}

// =====================================================
// HELPERS (callers hold mu)
// =====================================================

func (s *reviewService) indexLocked(id int64) int {
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			return i
		}
	}
	return -1
}

// voteLocked returns the recorded vote, ignoring a map built for someone else
func (s *reviewService) voteLocked(userID, reviewID int64) *model.VoteValue {
	if s.votesFor != userID {
		return nil
	}
	v, ok := s.votes[reviewID]
	if !ok {
		return nil
	}
	return &v
}

// replaceLocked swaps in the server's record for an existing review
func (s *reviewService) replaceLocked(r model.Review) {
	i := s.indexLocked(r.ID)
	if i < 0 {
		return
	}
	next := make([]model.Review, len(s.reviews))
	copy(next, s.reviews)
	next[i] = r
	s.reviews = next
}

// mergeLocked replaces an existing record or puts a new one first
func (s *reviewService) mergeLocked(r model.Review) {
	if s.indexLocked(r.ID) >= 0 {
		s.replaceLocked(r)
		return
	}
	next := make([]model.Review, 0, len(s.reviews)+1)
	next = append(next, r)
	next = append(next, s.reviews...)
	s.reviews = next
}

func (s *reviewService) cardLocked(r model.Review) model.ReviewCard {
	var voted *model.VoteValue
	if user, ok := s.who.CurrentUser(); ok {
		voted = s.voteLocked(user.ID, r.ID)
	}

	return model.ReviewCard{
		Review:      r,
		PhotoURL:    r.PhotoURL(),
		Helpfulness: r.Helpfulness(),
		CanModify:   access.CanModify(r, s.who),
		CanVote:     access.CanVote(s.who, voted),
		VotedValue:  voted,
	}
}
