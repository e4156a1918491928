package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.elastic.co/apm"
	"go.uber.org/zap"
)

const documentUploadPath = "/document-manager/api/document-manager/uploadDocuments"

// uploadSignature stores a captured driver signature against an ASN or
// purchase order in the upstream document manager.
func (a *API) uploadSignature(ctx context.Context, req UploadRequest) Result {
	// Create span
	span, ctx := apm.StartSpan(ctx, "Upload Driver Signature", "DocumentManager")
	defer span.End()

	upload := DocumentUpload{
		ObjectTypeId:       req.ObjectTypeID,
		ObjectId:           req.ObjectID,
		DocumentCategoryId: "DriverSignature",
		Action:             "overWrite",
		Description:        "Uploaded via Check-In Kiosk",
		DocumentManagerFiles: []DocumentFile{
			{
				FileName:     req.Filename,
				DocumentName: "Driver Signature",
				Description:  "Driver signature captured during check-in",
				Notes:        req.Notes,
				FileData:     req.FileData,
			},
		},
	}
	payload, err := json.Marshal(upload)
	if err != nil {
		logger(ctx, err)
		return Result{Success: false, Error: err.Error()}
	}

	zapLogger.Info("signature upload",
		zap.String("objectTypeId", req.ObjectTypeID),
		zap.String("objectId", req.ObjectID),
		zap.String("filename", req.Filename))

	// The document manager wants the org qualifier upper-cased
	org := strings.ToUpper(req.Org)
	headers := apiHeaders(req.Token, org)

	resp, err := sendRequest(a.client, http.MethodPost, a.apiURL(documentUploadPath), nil, headers, bytes.NewReader(payload))
	if err != nil {
		logger(ctx, err)
		return Result{Success: false, Error: err.Error()}
	}

	respBody, err := readBody(resp)
	if err != nil {
		logger(ctx, err)
		return Result{Success: false, Error: err.Error()}
	}

	zapLogger.Info("signature upload response",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", truncateBody(respBody, 2000)))

	if resp.StatusCode >= 400 {
		return Result{Success: false, Error: fmt.Sprintf("Upload failed (HTTP %d)", resp.StatusCode)}
	}

	// A 2xx can still carry an explicit failure flag in the body
	var parsed upstreamResult
	if err := json.Unmarshal(respBody, &parsed); err == nil {
		if parsed.Success != nil && !*parsed.Success {
			errList := parsed.Errors
			if len(errList) == 0 {
				errList = parsed.Exceptions
			}
			if len(errList) > 0 {
				return Result{Success: false, Error: errList[0].Message}
			}
			return Result{Success: false, Error: "Upload failed"}
		}
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Signature uploaded for %s %s", req.ObjectTypeID, req.ObjectID),
	}
}
