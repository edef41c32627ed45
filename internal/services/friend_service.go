package services

import (
	"time"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/pkg/errors"
)

// FriendService mediates the friend-request state machine and the
// friendship invariant: at most one undirected friendship per pair.
type FriendService struct {
	friendRepo *repositories.FriendRepository
	userRepo   *repositories.UserRepository
}

func NewFriendService(friendRepo *repositories.FriendRepository, userRepo *repositories.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendRequest creates a pending request from sender to recipient, or reopens
// a previously rejected one (same row, same id). A pending request in the
// reverse direction does not block: the accept path's idempotent guard keeps
// the pair's friendship unique regardless of which side is accepted first.
func (s *FriendService) SendRequest(senderID, recipientID string) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, errors.New(errors.ErrCodeSelfRequest, "cannot send a friend request to yourself")
	}

	for _, id := range []string{senderID, recipientID} {
		exists, err := s.userRepo.UserExists(id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.New(errors.ErrCodeNotFound, "user not found")
		}
	}

	friends, err := s.friendRepo.FriendshipExists(senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, errors.New(errors.ErrCodeAlreadyFriends, "users are already friends")
	}

	existing, err := s.friendRepo.GetRequestByPair(senderID, recipientID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		switch existing.Status {
		case models.FriendRequestPending:
			return nil, errors.New(errors.ErrCodeDuplicatePending, "a pending friend request already exists")
		case models.FriendRequestAccepted:
			return nil, errors.New(errors.ErrCodeAlreadyAccepted, "friend request was already accepted")
		default:
			if err := s.friendRepo.ReopenRequest(existing.ID); err != nil {
				return nil, err
			}
			existing.Status = models.FriendRequestPending
			return existing, nil
		}
	}

	return s.friendRepo.CreateRequest(senderID, recipientID)
}

// AcceptRequest transitions a pending request to accepted and creates the
// friendship atomically. Only the recipient may accept.
func (s *FriendService) AcceptRequest(requestID, actorID string) (*models.Friendship, error) {
	req, err := s.friendRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}

	if req.ToUserID != actorID {
		return nil, errors.New(errors.ErrCodeForbidden, "only the recipient can accept this request")
	}
	if req.Status != models.FriendRequestPending {
		return nil, errors.New(errors.ErrCodeInvalidState, "friend request is not pending")
	}

	return s.friendRepo.AcceptRequest(requestID)
}

// RejectRequest transitions a pending request to rejected. Only the
// recipient may reject; no friendship side effect.
func (s *FriendService) RejectRequest(requestID, actorID string) error {
	req, err := s.friendRepo.GetRequestByID(requestID)
	if err != nil {
		return err
	}

	if req.ToUserID != actorID {
		return errors.New(errors.ErrCodeForbidden, "only the recipient can reject this request")
	}
	if req.Status != models.FriendRequestPending {
		return errors.New(errors.ErrCodeInvalidState, "friend request is not pending")
	}

	return s.friendRepo.RejectRequest(requestID)
}

// ListIncoming returns pending requests addressed to the user, newest first
func (s *FriendService) ListIncoming(userID string) ([]models.FriendRequest, error) {
	return s.friendRepo.ListPendingReceived(userID)
}

// ListOutgoing returns pending requests the user has sent, newest first
func (s *FriendService) ListOutgoing(userID string) ([]models.FriendRequest, error) {
	return s.friendRepo.ListPendingSent(userID)
}

// Friend is the counterpart view of a friendship row.
type Friend struct {
	User  models.User
	Since time.Time
	RowID string
}

// ListFriends returns the counterpart account of every friendship touching
// the user, direction normalized.
func (s *FriendService) ListFriends(userID string) ([]Friend, error) {
	friendships, err := s.friendRepo.ListFriendships(userID)
	if err != nil {
		return nil, err
	}

	friends := make([]Friend, 0, len(friendships))
	for _, f := range friendships {
		counterpart := f.User1
		if f.User1ID == userID {
			counterpart = f.User2
		}
		friends = append(friends, Friend{
			User:  counterpart,
			Since: f.CreatedAt,
			RowID: f.ID,
		})
	}

	return friends, nil
}

// CountFriends returns the user's friend count
func (s *FriendService) CountFriends(userID string) (int64, error) {
	return s.friendRepo.CountFriends(userID)
}

// FriendsOf returns any account's friends with the total count. Friend
// lists are public information, so no actor check.
func (s *FriendService) FriendsOf(userID string) ([]Friend, int64, error) {
	exists, err := s.userRepo.UserExists(userID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, errors.New(errors.ErrCodeNotFound, "user not found")
	}

	friends, err := s.ListFriends(userID)
	if err != nil {
		return nil, 0, err
	}

	return friends, int64(len(friends)), nil
}
