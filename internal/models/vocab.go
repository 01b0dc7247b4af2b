package models

// QualityTag grades a whole episode. The empty string means "not set".
type QualityTag string

const (
	QualityPerfect QualityTag = "perfect"
	QualityGood    QualityTag = "good"
	QualityUsable  QualityTag = "usable"
	QualityFlawed  QualityTag = "flawed"
	QualityDiscard QualityTag = "discard"
)

// QualityTags lists all quality grades in display order.
var QualityTags = []QualityTag{
	QualityPerfect, QualityGood, QualityUsable, QualityFlawed, QualityDiscard,
}

// PhaseTag labels what the robot is doing in a frame.
type PhaseTag string

const (
	PhaseApproach PhaseTag = "approach"
	PhaseGrasp    PhaseTag = "grasp"
	PhaseLift     PhaseTag = "lift"
	PhaseTransfer PhaseTag = "transfer"
	PhasePlace    PhaseTag = "place"
	PhaseRelease  PhaseTag = "release"
	PhaseRetreat  PhaseTag = "retreat"
	PhaseIdle     PhaseTag = "idle"
)

// PhaseTags lists the phase vocabulary in timeline order.
var PhaseTags = []PhaseTag{
	PhaseApproach, PhaseGrasp, PhaseLift, PhaseTransfer,
	PhasePlace, PhaseRelease, PhaseRetreat, PhaseIdle,
}

// IssueTag marks a problem (or its recovery) observed in a frame.
// Recovery tags share the vocabulary so the pairing table can relate them.
type IssueTag string

const (
	IssueLeftArmMissed    IssueTag = "left_arm_missed"
	IssueLeftArmDrop      IssueTag = "left_arm_drop"
	IssueLeftArmRecovery  IssueTag = "left_arm_recovery"
	IssueRightArmMissed   IssueTag = "right_arm_missed"
	IssueRightArmDrop     IssueTag = "right_arm_drop"
	IssueRightArmRecovery IssueTag = "right_arm_recovery"
	IssueGraspSlip        IssueTag = "grasp_slip"
	IssueGraspRecovery    IssueTag = "grasp_recovery"
	IssueCollision        IssueTag = "collision"
	IssueCollisionFixed   IssueTag = "collision_recovery"
)

// IssueTags lists the issue vocabulary in display order.
var IssueTags = []IssueTag{
	IssueLeftArmMissed, IssueLeftArmDrop, IssueLeftArmRecovery,
	IssueRightArmMissed, IssueRightArmDrop, IssueRightArmRecovery,
	IssueGraspSlip, IssueGraspRecovery,
	IssueCollision, IssueCollisionFixed,
}

// ArmKind records which arms the demonstration used. Empty means "not set".
type ArmKind string

const (
	ArmLeft  ArmKind = "left"
	ArmRight ArmKind = "right"
	ArmBoth  ArmKind = "both"
)

// ArmKinds lists the arm vocabulary in display order.
var ArmKinds = []ArmKind{ArmLeft, ArmRight, ArmBoth}

// KeyNoteTag flags a recording-level peculiarity at episode scope.
type KeyNoteTag string

const (
	KeyNoteOcclusion         KeyNoteTag = "occlusion"
	KeyNoteBlurredVideo      KeyNoteTag = "blurred_video"
	KeyNoteLightingChange    KeyNoteTag = "lighting_change"
	KeyNoteMultiObject       KeyNoteTag = "multi_object"
	KeyNoteHumanIntervention KeyNoteTag = "human_intervention"
)

// KeyNoteTags lists the key-note vocabulary in display order.
var KeyNoteTags = []KeyNoteTag{
	KeyNoteOcclusion, KeyNoteBlurredVideo, KeyNoteLightingChange,
	KeyNoteMultiObject, KeyNoteHumanIntervention,
}
