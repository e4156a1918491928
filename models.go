package main

/**************************
 ****** API Requests ******
 **************************/

type AuthRequest struct {
	Org string `json:"org"`
}

type SessionRequest struct {
	Org   string `json:"org"`
	Token string `json:"token"`
}

type SearchRequest struct {
	Org           string `json:"org"`
	Token         string `json:"token"`
	AppointmentID string `json:"appointment_id"`
	Criteria      string `json:"criteria"`
}

type CheckInSubmission struct {
	Org   string            `json:"org"`
	Token string            `json:"token"`
	Appt  AppointmentRecord `json:"appt"`
}

type TrackRequest struct {
	EventName string         `json:"event_name"`
	Metadata  map[string]any `json:"metadata"`
}

type UploadRequest struct {
	Org          string `json:"org"`
	Token        string `json:"token"`
	ObjectTypeID string `json:"objectTypeId"`
	ObjectID     string `json:"objectId"`
	Filename     string `json:"filename"`
	FileData     string `json:"fileData"`
	Notes        string `json:"notes"`
}

/******************************
 ****** Appointment Data ******
 ******************************/

// AppointmentRecord is an upstream appointment row. The upstream template is
// open-ended, so records stay generic maps and display annotations are added
// in place.
type AppointmentRecord map[string]any

// Query body for the upstream search endpoints
type SearchQuery struct {
	Query          string         `json:"Query"`
	Template       map[string]any `json:"Template,omitempty"`
	Size           int            `json:"Size"`
	Page           int            `json:"Page"`
	NeedTotalCount bool           `json:"needTotalCount,omitempty"`
}

type searchResponse struct {
	Data []AppointmentRecord `json:"data"`
}

type conditionCodeResponse struct {
	Data struct {
		TrailerConditionCode []map[string]any `json:"TrailerConditionCode"`
	} `json:"data"`
}

/***************************
 ****** Check-In Data ******
 ***************************/

type AppointmentInfo struct {
	AppointmentId     any `json:"AppointmentId"`
	AppointmentTypeId any `json:"AppointmentTypeId"`
}

type TrailerInfo struct {
	CarrierId       any `json:"CarrierId"`
	TrailerId       any `json:"TrailerId"`
	EquipmentTypeId any `json:"EquipmentTypeId"`
	ConditionCodeId any `json:"ConditionCodeId,omitempty"`
}

type CheckInRequest struct {
	AppointmentInfo AppointmentInfo `json:"AppointmentInfo"`
	VisitType       any             `json:"VisitType"`
	TrailerInfo     TrailerInfo     `json:"TrailerInfo"`
}

/**********************************
 ****** Upstream Result Data ******
 **********************************/

// upstreamResult covers the inconsistent success/failure shapes the upstream
// returns for transactional calls. Success is a pointer so an absent flag can
// be told apart from an explicit false.
type upstreamResult struct {
	Success  *bool `json:"success"`
	Messages struct {
		Message []struct {
			Description string `json:"Description"`
		} `json:"Message"`
	} `json:"messages"`
	Errors     []upstreamError `json:"errors"`
	Exceptions []upstreamError `json:"exceptions"`
}

type upstreamError struct {
	Message string `json:"message"`
}

// Result is the normalized outcome returned to the kiosk for transactional
// calls (check-in, signature upload).
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

/*********************************
 ****** Document Management ******
 *********************************/

type DocumentFile struct {
	FileName     string `json:"FileName"`
	DocumentName string `json:"DocumentName"`
	Description  string `json:"Description"`
	Notes        string `json:"Notes"`
	FileData     string `json:"FileData"`
}

type DocumentUpload struct {
	ObjectTypeId         string         `json:"ObjectTypeId"`
	ObjectId             string         `json:"ObjectId"`
	DocumentCategoryId   string         `json:"DocumentCategoryId"`
	Action               string         `json:"Action"`
	Description          string         `json:"Description"`
	DocumentManagerFiles []DocumentFile `json:"DocumentManagerFiles"`
}

/*****************************
 ****** Response Helper ******
 *****************************/

type apiResponse map[string]any

func errorResponse(msg string) apiResponse {
	return apiResponse{"success": false, "error": msg}
}
