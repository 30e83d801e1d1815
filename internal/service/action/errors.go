package action

import "errors"

const (
	StageSignWithdraw = "signWithdrawFromSyncToEthereum"
	StageSignTransfer = "signSyncTransfer"
	StageSubmitBatch  = "submitTxsBatch"
)

// StageError 拆分手续费的提现流程中, 标明失败发生在哪一步
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return "Error while performing " + e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// IsSigningFailure 签名阶段失败 (提现签名或转账签名)
func IsSigningFailure(err error) bool {
	se, ok := asStageError(err)
	return ok && (se.Stage == StageSignWithdraw || se.Stage == StageSignTransfer)
}

// IsSubmissionFailure 批量提交失败
func IsSubmissionFailure(err error) bool {
	se, ok := asStageError(err)
	return ok && se.Stage == StageSubmitBatch
}

func asStageError(err error) (*StageError, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
