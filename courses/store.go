package courses

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/courseboard-go/apperror"
)

// Store lookup sentinels.
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// CourseStore is the persistence boundary for courses and announcements.
type CourseStore interface {
	CreateCourse(ctx context.Context, course *Course) (*Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	GetCourse(ctx context.Context, id int) (*Course, error)
	UpdateCourse(ctx context.Context, course *Course) (*Course, error)
	DeleteCourse(ctx context.Context, id int) error

	CreateAnnouncement(ctx context.Context, a *Announcement) (*Announcement, error)
	ListAnnouncements(ctx context.Context, courseID int) ([]Announcement, error)
	DeleteAnnouncement(ctx context.Context, courseID, id int) error
}

// PostgresCourseStore implements CourseStore over a pgx connection pool.
type PostgresCourseStore struct {
	db *pgxpool.Pool
}

// NewPostgresCourseStore creates a PostgresCourseStore.
func NewPostgresCourseStore(db *pgxpool.Pool) *PostgresCourseStore {
	return &PostgresCourseStore{db: db}
}

func (s *PostgresCourseStore) CreateCourse(ctx context.Context, course *Course) (*Course, error) {
	query := `
		INSERT INTO courses (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := s.db.QueryRow(ctx, query, course.Name, course.Description, course.CreatedBy).
		Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create course", err)
	}
	return course, nil
}

func (s *PostgresCourseStore) ListCourses(ctx context.Context) ([]Course, error) {
	query := `
		SELECT id, name, description, created_by, created_at
		FROM courses
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list courses", err)
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan course", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read courses", err)
	}
	return courses, nil
}

func (s *PostgresCourseStore) GetCourse(ctx context.Context, id int) (*Course, error) {
	query := `
		SELECT id, name, description, created_by, created_at
		FROM courses
		WHERE id = $1
	`
	var c Course
	err := s.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, apperror.NewDatabaseError("failed to query course", err)
	}
	return &c, nil
}

func (s *PostgresCourseStore) UpdateCourse(ctx context.Context, course *Course) (*Course, error) {
	query := `
		UPDATE courses
		SET name = $1, description = $2
		WHERE id = $3
		RETURNING created_by, created_at
	`
	err := s.db.QueryRow(ctx, query, course.Name, course.Description, course.ID).
		Scan(&course.CreatedBy, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, apperror.NewDatabaseError("failed to update course", err)
	}
	return course, nil
}

func (s *PostgresCourseStore) DeleteCourse(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete course", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (s *PostgresCourseStore) CreateAnnouncement(ctx context.Context, a *Announcement) (*Announcement, error) {
	query := `
		INSERT INTO announcements (course_id, title, body, posted_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := s.db.QueryRow(ctx, query, a.CourseID, a.Title, a.Body, a.PostedBy).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create announcement", err)
	}
	return a, nil
}

func (s *PostgresCourseStore) ListAnnouncements(ctx context.Context, courseID int) ([]Announcement, error) {
	query := `
		SELECT id, course_id, title, body, posted_by, created_at
		FROM announcements
		WHERE course_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list announcements", err)
	}
	defer rows.Close()

	items := []Announcement{}
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Title, &a.Body, &a.PostedBy, &a.CreatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan announcement", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read announcements", err)
	}
	return items, nil
}

func (s *PostgresCourseStore) DeleteAnnouncement(ctx context.Context, courseID, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1 AND course_id = $2`, id, courseID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete announcement", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}
