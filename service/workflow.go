package service

import "github.com/mscofield999-cyber/meetingminutes/model"

// statusForUpdate derives the status an update should write, if any.
// The approval workflow is purely additive: a non-empty chairman
// signature moves a meeting to approved, and nothing ever moves it
// back. An update without a signature leaves status untouched.
func statusForUpdate(p *model.MeetingPayload) (string, bool) {
	if p.ChairmanSignature != nil && *p.ChairmanSignature != "" {
		return model.StatusApproved, true
	}
	return "", false
}
