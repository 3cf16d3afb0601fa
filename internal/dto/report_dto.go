package dto

// AttendancePercentageResponse summarizes one student's standing in a class.
type AttendancePercentageResponse struct {
	ClassID          uint    `json:"class_id"`
	StudentID        uint    `json:"student_id"`
	TotalSessions    int64   `json:"total_sessions"`
	AttendedSessions int64   `json:"attended_sessions"`
	Percentage       float64 `json:"percentage"`
	Satisfactory     bool    `json:"satisfactory"`
}

// StudentReportEntry is one roster row in a class report.
type StudentReportEntry struct {
	StudentID  uint    `json:"student_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Present    int64   `json:"present"`
	Absent     int64   `json:"absent"`
	Percentage float64 `json:"percentage"`
}

// ClassReportResponse is the full per-class attendance report.
type ClassReportResponse struct {
	ClassID       uint                 `json:"class_id"`
	ClassName     string               `json:"class_name"`
	TotalSessions int64                `json:"total_sessions"`
	PerStudent    []StudentReportEntry `json:"per_student"`
}

// SessionRosterEntry reports one student's status for a single session. A
// student with no stored record is reported absent by inference.
type SessionRosterEntry struct {
	StudentID uint   `json:"student_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// SessionAttendanceResponse is the roster view of one session.
type SessionAttendanceResponse struct {
	SessionID uint                 `json:"session_id"`
	ClassID   uint                 `json:"class_id"`
	Roster    []SessionRosterEntry `json:"roster"`
}

// SessionCountResponse reports how many records a session holds.
type SessionCountResponse struct {
	SessionID uint  `json:"session_id"`
	Count     int64 `json:"count"`
}
