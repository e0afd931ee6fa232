package courses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/courseboard-go/apperror"
)

// CourseService holds the business logic for the course catalog and its
// announcements. Newly posted announcements are also published to the live
// feed so connected clients see them without polling.
type CourseService struct {
	store CourseStore
	feed  *Feed
}

// NewCourseService creates a CourseService. The feed may be nil when no live
// streaming is wanted (e.g. in tests).
func NewCourseService(store CourseStore, feed *Feed) *CourseService {
	return &CourseService{store: store, feed: feed}
}

// CreateCourse persists a new course owned by userID.
func (s *CourseService) CreateCourse(ctx context.Context, req *NewCourseRequest, userID int) (*Course, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.NewValidationError("unable to create course", []string{"Name is required"})
	}
	course := &Course{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}
	return s.store.CreateCourse(ctx, course)
}

// ListCourses returns the whole catalog, newest first.
func (s *CourseService) ListCourses(ctx context.Context) ([]Course, error) {
	return s.store.ListCourses(ctx)
}

// GetCourse returns a course together with its announcements.
func (s *CourseService) GetCourse(ctx context.Context, id int) (*CourseDetail, error) {
	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		return nil, mapCourseErr(err, id)
	}
	items, err := s.store.ListAnnouncements(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{Course: *course, Announcements: items}, nil
}

// UpdateCourse replaces a course's name and description.
func (s *CourseService) UpdateCourse(ctx context.Context, id int, req *NewCourseRequest) (*Course, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.NewValidationError("unable to update course", []string{"Name is required"})
	}
	course := &Course{ID: id, Name: req.Name, Description: req.Description}
	updated, err := s.store.UpdateCourse(ctx, course)
	if err != nil {
		return nil, mapCourseErr(err, id)
	}
	return updated, nil
}

// DeleteCourse removes a course and, through the store, its announcements.
func (s *CourseService) DeleteCourse(ctx context.Context, id int) error {
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		return mapCourseErr(err, id)
	}
	return nil
}

// AddAnnouncement posts an announcement to a course and publishes it to the
// course's live feed.
func (s *CourseService) AddAnnouncement(ctx context.Context, courseID int, req *NewAnnouncementRequest, userID int) (*Announcement, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperror.NewValidationError("unable to post announcement", []string{"Title is required"})
	}
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return nil, mapCourseErr(err, courseID)
	}

	announcement := &Announcement{
		CourseID: courseID,
		Title:    req.Title,
		Body:     req.Body,
		PostedBy: userID,
	}
	created, err := s.store.CreateAnnouncement(ctx, announcement)
	if err != nil {
		return nil, err
	}
	if s.feed != nil {
		s.feed.Publish(courseID, created)
	}
	return created, nil
}

// ListAnnouncements returns a course's announcements, newest first.
func (s *CourseService) ListAnnouncements(ctx context.Context, courseID int) ([]Announcement, error) {
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return nil, mapCourseErr(err, courseID)
	}
	return s.store.ListAnnouncements(ctx, courseID)
}

// DeleteAnnouncement removes an announcement from a course.
func (s *CourseService) DeleteAnnouncement(ctx context.Context, courseID, id int) error {
	err := s.store.DeleteAnnouncement(ctx, courseID, id)
	if err != nil {
		if errors.Is(err, ErrAnnouncementNotFound) {
			return apperror.NewNotFoundError(fmt.Sprintf("announcement %d not found in course %d", id, courseID), nil)
		}
		return err
	}
	return nil
}

func mapCourseErr(err error, id int) error {
	if errors.Is(err, ErrCourseNotFound) {
		return apperror.NewNotFoundError(fmt.Sprintf("course %d not found", id), nil)
	}
	return err
}
