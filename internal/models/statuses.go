package models

type MemberRole string

const (
	MemberRoleStandard    MemberRole = "standard"
	MemberRoleGlobalAdmin MemberRole = "global_admin"
)

type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "active"
	ProgramStatusUpcoming ProgramStatus = "upcoming"
	ProgramStatusFinished ProgramStatus = "finished"
)

type MembershipRole string

const (
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleLogger MembershipRole = "logger"
	MembershipRoleMember MembershipRole = "member"
)

type MembershipStatus string

const (
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusLeft    MembershipStatus = "left"
	MembershipStatusRemoved MembershipStatus = "removed"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)
