package services

import (
	"strings"

	"github.com/aslmarket/backend/internal/app/models"
)

type registrationKind string

const (
	registrationKindSupplier registrationKind = "supplier"
	registrationKindVisitor  registrationKind = "visitor"
)

var registrationKindLabels = map[registrationKind]string{
	registrationKindSupplier: "تأمین‌کننده",
	registrationKindVisitor:  "ویزیتور",
}

// reviewNotification builds the in-app message sent after an admin review
func reviewNotification(kind registrationKind, userID int64, status models.RegistrationStatus, notes string) *models.Notification {
	label := registrationKindLabels[kind]
	n := &models.Notification{
		UserID:    int64Ptr(userID),
		Priority:  models.PriorityHigh,
		ActionURL: "/" + string(kind) + "/status",
	}

	switch status {
	case models.RegistrationApproved:
		n.Type = models.NotificationSuccess
		n.Title = "ثبت‌نام " + label + " تأیید شد"
		n.Message = "درخواست ثبت‌نام شما به عنوان " + label + " تأیید شد."
	default:
		n.Type = models.NotificationWarning
		n.Title = "ثبت‌نام " + label + " رد شد"
		n.Message = "درخواست ثبت‌نام شما به عنوان " + label + " رد شد."
	}

	if notes = strings.TrimSpace(notes); notes != "" {
		n.Message += " توضیحات: " + notes
	}
	return n
}
