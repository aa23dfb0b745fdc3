package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bodyPartFixture struct {
	profiles  *fakeProfileRepo
	reports   *fakeReportRepo
	bodyParts *fakeBodyPartRepo
	svc       BodyPartService
}

func newBodyPartFixture() *bodyPartFixture {
	profiles := newFakeProfileRepo()
	reports := newFakeReportRepo(profiles)
	bodyParts := newFakeBodyPartRepo(reports, profiles)
	return &bodyPartFixture{
		profiles:  profiles,
		reports:   reports,
		bodyParts: bodyParts,
		svc:       NewBodyPartService(bodyParts, reports),
	}
}

func TestCreateBodyPart_ManagingTrainerOnly(t *testing.T) {
	f := newBodyPartFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})

	fat := 15.0
	part, err := f.svc.CreateBodyPart(context.Background(), trainerPrincipal(trainerID), BodyPartCreateInput{
		ReportID: report.ID,
		Name:     "left thigh",
		BodyFat:  &fat,
	})
	require.NoError(t, err)
	assert.Equal(t, report.ID, part.ReportID)

	// Foreign trainer and the assessed trainee both get report-not-found.
	_, err = f.svc.CreateBodyPart(context.Background(), trainerPrincipal(oid()), BodyPartCreateInput{
		ReportID: report.ID,
		Name:     "right thigh",
	})
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = f.svc.CreateBodyPart(context.Background(), traineePrincipal(trainee.ID), BodyPartCreateInput{
		ReportID: report.ID,
		Name:     "right thigh",
	})
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestGetBodyPartByID_TwoHopAccess(t *testing.T) {
	f := newBodyPartFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})
	part := f.bodyParts.add(domain.BodyPart{ReportID: report.ID, Name: "left arm"})

	// Measurement -> report -> profile: the managing trainer and the
	// assessed trainee both resolve, anyone else sees not-found.
	_, err := f.svc.GetBodyPartByID(context.Background(), trainerPrincipal(trainerID), part.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetBodyPartByID(context.Background(), traineePrincipal(trainee.ID), part.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetBodyPartByID(context.Background(), trainerPrincipal(oid()), part.ID)
	assert.ErrorIs(t, err, ErrBodyPartNotFound)

	_, err = f.svc.GetBodyPartByID(context.Background(), traineePrincipal(oid()), part.ID)
	assert.ErrorIs(t, err, ErrBodyPartNotFound)
}

func TestGetBodyPartByID_BrokenChainResolvesToNotFound(t *testing.T) {
	f := newBodyPartFixture()
	// Measurement pointing at a report that no longer exists.
	orphan := f.bodyParts.add(domain.BodyPart{ReportID: oid(), Name: "left arm"})

	_, err := f.svc.GetBodyPartByID(context.Background(), trainerPrincipal(oid()), orphan.ID)
	assert.ErrorIs(t, err, ErrBodyPartNotFound)

	// Admins skip the chain entirely.
	_, err = f.svc.GetBodyPartByID(context.Background(), adminPrincipal(), orphan.ID)
	assert.NoError(t, err)
}

func TestUpdateBodyPart_AccessImpliesMutation(t *testing.T) {
	f := newBodyPartFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})
	part := f.bodyParts.add(domain.BodyPart{ReportID: report.ID, Name: "left arm"})

	// Unlike reports, the assessed trainee may edit their own measurements.
	fat := 13.1
	updated, err := f.svc.UpdateBodyPart(context.Background(), traineePrincipal(trainee.ID), part.ID, BodyPartUpdateInput{BodyFat: &fat})
	require.NoError(t, err)
	require.NotNil(t, updated.BodyFat)
	assert.Equal(t, 13.1, *updated.BodyFat)

	name := "forearm"
	_, err = f.svc.UpdateBodyPart(context.Background(), trainerPrincipal(trainerID), part.ID, BodyPartUpdateInput{Name: &name})
	assert.NoError(t, err)

	_, err = f.svc.UpdateBodyPart(context.Background(), trainerPrincipal(oid()), part.ID, BodyPartUpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrBodyPartNotFound)
}

func TestDeleteBodyPart_ByTrainee(t *testing.T) {
	f := newBodyPartFixture()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(oid())})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})
	part := f.bodyParts.add(domain.BodyPart{ReportID: report.ID, Name: "left arm"})

	require.NoError(t, f.svc.DeleteBodyPart(context.Background(), traineePrincipal(trainee.ID), part.ID))

	_, err := f.bodyParts.GetByID(context.Background(), part.ID)
	assert.Error(t, err)
}

func TestListBodyParts_FilterAuthorization(t *testing.T) {
	f := newBodyPartFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})
	f.bodyParts.add(domain.BodyPart{ReportID: report.ID, Name: "left arm"})
	f.bodyParts.add(domain.BodyPart{ReportID: report.ID, Name: "right arm"})

	got, err := f.svc.ListBodyParts(context.Background(), trainerPrincipal(trainerID), oidPtr(report.ID))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.svc.ListBodyParts(context.Background(), traineePrincipal(trainee.ID), oidPtr(report.ID))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Unauthorized filter yields an empty slice, never an error.
	got, err = f.svc.ListBodyParts(context.Background(), trainerPrincipal(oid()), oidPtr(report.ID))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.svc.ListBodyParts(context.Background(), traineePrincipal(oid()), oidPtr(report.ID))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListBodyParts_RoleScopedWithoutFilter(t *testing.T) {
	f := newBodyPartFixture()
	trainerID := oid()
	trainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(trainerID)})
	otherTrainee := f.profiles.add(domain.Profile{Role: domain.RoleTrainee, TrainerID: oidPtr(oid())})
	report := f.reports.add(domain.Report{ProfileID: trainee.ID})
	otherReport := f.reports.add(domain.Report{ProfileID: otherTrainee.ID})
	f.bodyParts.add(domain.BodyPart{ReportID: report.ID, Name: "left arm"})
	f.bodyParts.add(domain.BodyPart{ReportID: otherReport.ID, Name: "right arm"})

	mine, err := f.svc.ListBodyParts(context.Background(), trainerPrincipal(trainerID), nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "left arm", mine[0].Name)

	all, err := f.svc.ListBodyParts(context.Background(), adminPrincipal(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
