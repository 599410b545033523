package fslab

import (
	"fmt"
	"net/http"

	"github.com/devtutor/backend/srvcerror"
)

const ErrCodeArtifactIncomplete = "artifact_incomplete"

func ErrArtifactIncomplete(missing string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeArtifactIncomplete,
		fmt.Sprintf("lab artifacts are incomplete: missing %s", missing),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeLabNotFound = "lab_not_found"

func ErrLabNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeLabNotFound,
		"lab not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeLabCorrupt = "lab_corrupt"

func ErrLabCorrupt() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeLabCorrupt,
		"lab workspace is corrupt",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeLabAlreadyExists = "lab_already_exists"

func ErrLabAlreadyExists() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeLabAlreadyExists,
		"a lab with this id already exists",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeGradeRecordConflict = "grade_record_write_conflict"

func ErrGradeRecordConflict() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeGradeRecordConflict,
		"another grading run is writing the grade record",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeGradeRecordNotFound = "grade_record_not_found"

func ErrGradeRecordNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeGradeRecordNotFound,
		"the lab has not been graded yet",
	).SetHttpStatusCode(http.StatusNotFound)
}
