// Package courses implements course management: the course catalog and the
// announcements posted inside each course.
package courses

import "time"

// Course is a unit of teaching that announcements hang off of.
type Course struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Announcement is an item posted inside a course.
type Announcement struct {
	ID        int       `json:"id"`
	CourseID  int       `json:"course_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	PostedBy  int       `json:"posted_by"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseDetail is a course together with its announcements.
type CourseDetail struct {
	Course
	Announcements []Announcement `json:"announcements"`
}

// NewCourseRequest is the payload for creating or updating a course.
type NewCourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewAnnouncementRequest is the payload for posting an announcement.
type NewAnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
