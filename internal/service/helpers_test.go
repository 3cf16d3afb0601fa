package service

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type fakeClassRepo struct {
	mu      sync.Mutex
	nextID  uint
	classes map[uint]*models.Class

	// codeFailures makes the next N Create calls report a join code
	// collision regardless of the generated code.
	codeFailures int
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: make(map[uint]*models.Class)}
}

func (f *fakeClassRepo) put(class models.Class) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if class.ID == 0 {
		f.nextID++
		class.ID = f.nextID
	} else if class.ID > f.nextID {
		f.nextID = class.ID
	}
	stored := class
	f.classes[class.ID] = &stored
}

func (f *fakeClassRepo) Create(ctx context.Context, class *models.Class) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.codeFailures > 0 {
		f.codeFailures--
		return repository.ErrCodeTaken
	}
	for _, existing := range f.classes {
		if existing.Code == class.Code {
			return repository.ErrCodeTaken
		}
	}
	f.nextID++
	class.ID = f.nextID
	stored := *class
	f.classes[class.ID] = &stored
	return nil
}

func (f *fakeClassRepo) GetByID(ctx context.Context, id uint) (models.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	class, ok := f.classes[id]
	if !ok {
		return models.Class{}, gorm.ErrRecordNotFound
	}
	return *class, nil
}

func (f *fakeClassRepo) GetByIDForTeacher(ctx context.Context, id, teacherID uint) (models.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	class, ok := f.classes[id]
	if !ok || class.TeacherID != teacherID {
		return models.Class{}, gorm.ErrRecordNotFound
	}
	return *class, nil
}

func (f *fakeClassRepo) GetByCode(ctx context.Context, code string) (models.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, class := range f.classes {
		if class.Code == code {
			return *class, nil
		}
	}
	return models.Class{}, gorm.ErrRecordNotFound
}

func (f *fakeClassRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Class
	for _, class := range f.classes {
		if class.TeacherID == teacherID {
			result = append(result, *class)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeClassRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Class
	for _, class := range f.classes {
		for _, student := range class.Students {
			if student.ID == studentID {
				result = append(result, *class)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeClassRepo) AddStudent(ctx context.Context, classID, studentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	class, ok := f.classes[classID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	class.Students = append(class.Students, models.User{ID: studentID})
	return nil
}

func (f *fakeClassRepo) IsEnrolled(ctx context.Context, classID, studentID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	class, ok := f.classes[classID]
	if !ok {
		return false, nil
	}
	for _, student := range class.Students {
		if student.ID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   uint
	sessions map[uint]models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]models.Session)}
}

func (f *fakeSessionRepo) put(session models.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session.ID == 0 {
		f.nextID++
		session.ID = f.nextID
	} else if session.ID > f.nextID {
		f.nextID = session.ID
	}
	f.sessions[session.ID] = session
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	session.ID = f.nextID
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id uint) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) GetActiveByID(ctx context.Context, id uint) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok || !session.Active {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionRepo) ListByClassForTeacher(ctx context.Context, classID, teacherID uint) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Session
	for _, session := range f.sessions {
		if session.ClassID == classID && session.TeacherID == teacherID {
			result = append(result, session)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeSessionRepo) ListActiveByClass(ctx context.Context, classID uint) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Session
	for _, session := range f.sessions {
		if session.ClassID == classID && session.Active {
			result = append(result, session)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeSessionRepo) CountByClass(ctx context.Context, classID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, session := range f.sessions {
		if session.ClassID == classID {
			count++
		}
	}
	return count, nil
}

type attendanceKey struct {
	sessionID uint
	studentID uint
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	nextID  uint
	records map[attendanceKey]models.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[attendanceKey]models.Attendance)}
}

func (f *fakeAttendanceRepo) put(record models.Attendance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == 0 {
		f.nextID++
		record.ID = f.nextID
	}
	f.records[attendanceKey{record.SessionID, record.StudentID}] = record
}

func (f *fakeAttendanceRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, attendance *models.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attendanceKey{attendance.SessionID, attendance.StudentID}
	if _, ok := f.records[key]; ok {
		return repository.ErrAttendanceExists
	}
	f.nextID++
	attendance.ID = f.nextID
	f.records[key] = *attendance
	return nil
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, attendance *models.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attendanceKey{attendance.SessionID, attendance.StudentID}
	if existing, ok := f.records[key]; ok {
		existing.Status = attendance.Status
		existing.MarkedAt = attendance.MarkedAt
		f.records[key] = existing
		*attendance = existing
		return nil
	}
	f.nextID++
	attendance.ID = f.nextID
	f.records[key] = *attendance
	return nil
}

func (f *fakeAttendanceRepo) Exists(ctx context.Context, sessionID, studentID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[attendanceKey{sessionID, studentID}]
	return ok, nil
}

func (f *fakeAttendanceRepo) ListBySession(ctx context.Context, sessionID uint) ([]models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Attendance
	for _, record := range f.records {
		if record.SessionID == sessionID {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAttendanceRepo) ListByStudent(ctx context.Context, studentID uint, filter repository.AttendanceHistoryFilter) ([]models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Attendance
	for _, record := range f.records {
		if record.StudentID != studentID {
			continue
		}
		if filter.ClassID != nil && record.ClassID != *filter.ClassID {
			continue
		}
		if filter.From != nil && filter.To != nil {
			if record.MarkedAt.Before(*filter.From) || record.MarkedAt.After(*filter.To) {
				continue
			}
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MarkedAt.After(result[j].MarkedAt) })
	return result, nil
}

func (f *fakeAttendanceRepo) CountBySession(ctx context.Context, sessionID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, record := range f.records {
		if record.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttendanceRepo) CountPresent(ctx context.Context, classID, studentID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, record := range f.records {
		if record.ClassID == classID && record.StudentID == studentID && record.IsPresent() {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}
