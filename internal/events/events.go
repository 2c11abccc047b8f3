package events

import "github.com/sandaclub/hub/internal/models"

// Hooks the notification layer can set. The core never shows dialogs or sends
// anything itself; it emits structured results and lets the caller decide.

// OnDocumentValidated is called after an admin approves a document.
var OnDocumentValidated func(doc models.Document)

// OnDocumentRejected is called after an admin rejects a document.
var OnDocumentRejected func(doc models.Document, reason string)

// OnAthleteApproved is called after an admin approves a membership.
var OnAthleteApproved func(athlete models.Athlete)

// OnReminder is called by the reminder loop for each document or subscription
// closing in on its expiry date.
var OnReminder func(kind string, athleteID uint, daysLeft int)
