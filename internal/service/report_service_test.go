package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	profiles    *fakeProfileRepo
	reports     *fakeReportRepo
	bodyParts   *fakeBodyPartRepo
	attachments *fakeAttachmentRepo
	storage     *fakeStorage
	svc         ReportService
}

func newReportFixture() *reportFixture {
	profiles := newFakeProfileRepo()
	reports := newFakeReportRepo(profiles)
	bodyParts := newFakeBodyPartRepo(reports, profiles)
	attachments := newFakeAttachmentRepo()
	st := &fakeStorage{}
	return &reportFixture{
		profiles:    profiles,
		reports:     reports,
		bodyParts:   bodyParts,
		attachments: attachments,
		storage:     st,
		svc:         NewReportService(reports, profiles, attachments, st),
	}
}

func TestCreateReport_TrainerForManagedTrainee(t *testing.T) {
	f := newReportFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})

	weight := 81.2
	fat := 14.5
	report, err := f.svc.CreateReport(context.Background(), trainerPrincipal(trainerID), ReportCreateInput{
		ProfileID: trainee.ID,
		Content:   "Quarterly assessment",
		Weight:    &weight,
		BodyParts: []BodyPartInput{
			{Name: "left arm", BodyFat: &fat},
			{Name: "right arm", BodyFat: &fat},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, report.CreatedBy)
	assert.Equal(t, trainerID, *report.CreatedBy)

	// Measurements were written together with the report.
	parts, err := f.bodyParts.GetByReportID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestCreateReport_UnmanagedTraineeMasked(t *testing.T) {
	f := newReportFixture()
	stranger := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(oid())})

	_, err := f.svc.CreateReport(context.Background(), trainerPrincipal(oid()), ReportCreateInput{
		ProfileID: stranger.ID,
		Content:   "Assessment",
	})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestCreateReport_TraineeDenied(t *testing.T) {
	f := newReportFixture()
	traineeID := oid()
	f.profiles.add(domain.Profile{ID: traineeID, Role: domain.RoleTrainee})

	_, err := f.svc.CreateReport(context.Background(), traineePrincipal(traineeID), ReportCreateInput{
		ProfileID: traineeID,
		Content:   "Self assessment",
	})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetReportByID_OwnershipResolvesThroughProfileNotAuthor(t *testing.T) {
	f := newReportFixture()
	currentTrainerID := oid()
	formerTrainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(currentTrainerID)})

	// Report written by the former trainer. After the trainee switched
	// coaches, access follows the profile's current trainer link.
	report := f.reports.add(domain.Report{ProfileID: trainee.ID, CreatedBy: oidPtr(formerTrainerID)})

	_, err := f.svc.GetReportByID(context.Background(), trainerPrincipal(currentTrainerID), report.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetReportByID(context.Background(), trainerPrincipal(formerTrainerID), report.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestGetReportByID_TraineeReadsOwnReport(t *testing.T) {
	f := newReportFixture()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(oid())})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})

	_, err := f.svc.GetReportByID(context.Background(), traineePrincipal(trainee.ID), report.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetReportByID(context.Background(), traineePrincipal(oid()), report.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestUpdateReport_TraineeCannotMutateOwnReport(t *testing.T) {
	f := newReportFixture()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(oid())})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID, Content: "original"})

	// Readable but not writable: the denial is masked as not-found.
	content := "tampered"
	_, err := f.svc.UpdateReport(context.Background(), traineePrincipal(trainee.ID), report.ID, ReportUpdateInput{Content: &content})
	assert.ErrorIs(t, err, ErrReportNotFound)

	err = f.svc.DeleteReport(context.Background(), traineePrincipal(trainee.ID), report.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)

	stored, err := f.reports.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Content)
}

func TestUpdateReport_ManagingTrainer(t *testing.T) {
	f := newReportFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID, Content: "original"})

	content := "revised"
	updated, err := f.svc.UpdateReport(context.Background(), trainerPrincipal(trainerID), report.ID, ReportUpdateInput{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)
	assert.Equal(t, trainee.ID, updated.ProfileID)
}

func TestListReports_FilterAuthorization(t *testing.T) {
	f := newReportFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	f.reports.add(domain.Report{ProfileID: trainee.ID})
	f.reports.add(domain.Report{ProfileID: trainee.ID})

	got, err := f.svc.ListReports(context.Background(), trainerPrincipal(trainerID), oidPtr(trainee.ID))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Foreign trainer filtering on the same trainee: empty slice, no error.
	got, err = f.svc.ListReports(context.Background(), trainerPrincipal(oid()), oidPtr(trainee.ID))
	require.NoError(t, err)
	assert.Empty(t, got)

	// Trainee filtering on someone else: empty slice.
	got, err = f.svc.ListReports(context.Background(), traineePrincipal(oid()), oidPtr(trainee.ID))
	require.NoError(t, err)
	assert.Empty(t, got)

	// Trainee filtering on themself sees their reports.
	got, err = f.svc.ListReports(context.Background(), traineePrincipal(trainee.ID), oidPtr(trainee.ID))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAttachmentFlow(t *testing.T) {
	f := newReportFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})
	principal := trainerPrincipal(trainerID)
	ctx := context.Background()

	// Non-image uploads are rejected up front.
	_, _, err := f.svc.RequestAttachmentUploadURL(ctx, principal, report.ID, "report.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidAttachmentType)

	uploadURL, objectKey, err := f.svc.RequestAttachmentUploadURL(ctx, principal, report.ID, "front.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, uploadURL)
	assert.True(t, strings.HasPrefix(objectKey, "reports/"+report.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(objectKey, ".jpg"))

	attachment, err := f.svc.ConfirmAttachment(ctx, principal, report.ID, objectKey, "front.jpg", "image/jpeg", 1024)
	require.NoError(t, err)
	assert.Equal(t, report.ID, attachment.ReportID)

	// The assessed trainee may list and download but not upload.
	traineeP := traineePrincipal(trainee.ID)
	list, err := f.svc.ListAttachments(ctx, traineeP, report.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	downloadURL, err := f.svc.GetAttachmentDownloadURL(ctx, traineeP, attachment.ID)
	require.NoError(t, err)
	assert.Contains(t, downloadURL, objectKey)

	_, _, err = f.svc.RequestAttachmentUploadURL(ctx, traineeP, report.ID, "x.png", "image/png")
	assert.ErrorIs(t, err, ErrReportNotFound)

	// Deleting removes the S3 object and the metadata.
	require.NoError(t, f.svc.DeleteAttachment(ctx, principal, attachment.ID))
	assert.Contains(t, f.storage.deleted, objectKey)
	_, err = f.attachments.GetByID(ctx, attachment.ID)
	assert.Error(t, err)
}

func TestConfirmAttachment_RejectsForeignObjectKey(t *testing.T) {
	f := newReportFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})

	_, err := f.svc.ConfirmAttachment(context.Background(), trainerPrincipal(trainerID), report.ID, "reports/"+oid().Hex()+"/photo.jpg", "photo.jpg", "image/jpeg", 10)
	assert.Error(t, err)
}

func TestDeleteReport_RemovesAttachments(t *testing.T) {
	f := newReportFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})
	ctx := context.Background()

	key := "reports/" + report.ID.Hex() + "/photo.jpg"
	_, err := f.attachments.Create(ctx, &domain.Attachment{ReportID: report.ID, S3ObjectKey: key, FileName: "photo.jpg", ContentType: "image/jpeg", Size: 10})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteReport(ctx, trainerPrincipal(trainerID), report.ID))
	assert.Contains(t, f.storage.deleted, key)

	remaining, err := f.attachments.GetByReportID(ctx, report.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
