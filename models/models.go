package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - InterviewSession, TranscriptEntry, Transcript from session.go
// - InterviewAnalysis, CategoryScores, KeyHighlight from analysis.go
// - InterviewReport from report.go
// - ReportComment from comment.go
// - ReportVersion from version.go
// - ReportShare from share.go

// Database schema overview:
// 1. interview_sessions - One row per interview attempt; the transcript and
//    the derived analysis are owned JSON values on the session row
// 2. interview_reports - The reviewable artifact derived from a completed
//    session's analysis; session_id is the authoritative session link
// 3. report_comments - Threaded remarks on a report (parent_id forms replies)
// 4. report_versions - Append-only snapshots recorded at version bumps
// 5. report_shares - Revocable token-addressed access grants
