package group

import "github.com/google/uuid"

// Stage is one slot in an approval chain. The order is fixed: checker,
// approver_1, approver_2, approver_3.
type Stage string

const (
	StageChecker   Stage = "checker"
	StageApprover1 Stage = "approver_1"
	StageApprover2 Stage = "approver_2"
	StageApprover3 Stage = "approver_3"
)

// StageOrder is the only legal traversal order of a chain.
var StageOrder = [4]Stage{StageChecker, StageApprover1, StageApprover2, StageApprover3}

// ChainStep binds a stage to the delegation group whose members may act on
// it. A department group's chain is the ordered subsequence of its bound
// stages; unbound stages are absent, not auto-passed.
type ChainStep struct {
	Stage             Stage
	DelegationGroupID uuid.UUID
}
