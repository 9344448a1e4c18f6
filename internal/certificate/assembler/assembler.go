// Package assembler gathers the academic data a certificate is built from and
// shapes the metadata bundle anchored on the ledger.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"academix/internal/academic/models"
	certmodels "academix/internal/certificate/models"
	id "academix/pkg/domain"
	dErrors "academix/pkg/domain-errors"
	"academix/pkg/platform/sentinel"
)

// AcademicReader is the read surface the assembler needs.
type AcademicReader interface {
	FindGradedSubmission(ctx context.Context, studentID id.StudentID, examID id.ExamID) (*models.Submission, error)
	FindExam(ctx context.Context, examID id.ExamID) (*models.Exam, error)
	FindCourse(ctx context.Context, courseID id.CourseID) (*models.Course, error)
	FindStudent(ctx context.Context, studentID id.StudentID) (*models.Student, error)
}

// Assembly is the assembled certificate content plus the student contact
// details the orchestrator needs for minting and notification.
type Assembly struct {
	Data          certmodels.CertificateData
	StudentEmail  string
	WalletAddress string
}

type Assembler struct {
	reader AcademicReader
	issuer string
}

func New(reader AcademicReader, issuer string) *Assembler {
	return &Assembler{reader: reader, issuer: issuer}
}

// Assemble reads the submission, exam, course and student behind cert. Any
// missing record yields CodeNotFound.
func (a *Assembler) Assemble(ctx context.Context, cert *certmodels.Certificate) (*Assembly, error) {
	sub, err := a.reader.FindGradedSubmission(ctx, cert.StudentID, cert.ExamID)
	if err != nil {
		return nil, translate(err, "graded submission not found")
	}
	exam, err := a.reader.FindExam(ctx, cert.ExamID)
	if err != nil {
		return nil, translate(err, "exam not found")
	}
	course, err := a.reader.FindCourse(ctx, exam.CourseID)
	if err != nil {
		return nil, translate(err, "course not found")
	}
	student, err := a.reader.FindStudent(ctx, cert.StudentID)
	if err != nil {
		return nil, translate(err, "student not found")
	}

	return &Assembly{
		Data: certmodels.CertificateData{
			CertificateID: cert.ID,
			StudentName:   student.FullName,
			StudentEmail:  student.Email,
			CourseName:    course.Name,
			ExamTitle:     exam.Title,
			Score:         sub.Score,
			IssuedAt:      cert.IssuedAt,
			ExpiresAt:     cert.ExpiresAt,
			Issuer:        a.issuer,
		},
		StudentEmail:  student.Email,
		WalletAddress: student.WalletAddress,
	}, nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("assemble certificate: %s", msg))
}

// BuildMetadata shapes the JSON document referenced by the ledger token. The
// attributes repeat the rendered fields as flat trait/value pairs.
func BuildMetadata(data certmodels.CertificateData, imageURL string) certmodels.MetadataBundle {
	attrs := []certmodels.Attribute{
		{TraitType: "Student", Value: data.StudentName},
		{TraitType: "Course", Value: data.CourseName},
		{TraitType: "Exam", Value: data.ExamTitle},
		{TraitType: "Score", Value: strconv.FormatFloat(data.Score, 'f', -1, 64)},
		{TraitType: "Issued At", Value: data.IssuedAt.UTC().Format("2006-01-02")},
		{TraitType: "Issuer", Value: data.Issuer},
		{TraitType: "Certificate ID", Value: data.CertificateID.String()},
	}
	if data.ExpiresAt != nil {
		attrs = append(attrs, certmodels.Attribute{TraitType: "Expires At", Value: data.ExpiresAt.UTC().Format("2006-01-02")})
	}

	return certmodels.MetadataBundle{
		Name:        fmt.Sprintf("%s - %s", data.CourseName, data.StudentName),
		Description: fmt.Sprintf("Certificate of completion for %s (%s) issued by %s.", data.CourseName, data.ExamTitle, data.Issuer),
		Image:       imageURL,
		Attributes:  attrs,
	}
}
