package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivityFixture() (*fakePlanRepo, *fakeActivityRepo, ActivityService) {
	plans := newFakePlanRepo()
	activities := newFakeActivityRepo(plans)
	return plans, activities, NewActivityService(activities, plans)
}

func TestCreateActivity_TraineeDeniedEvenOnOwnPlan(t *testing.T) {
	plans, _, svc := newActivityFixture()
	traineeID := oid()
	plan := plans.add(domain.Plan{TrainerID: oid(), TraineeID: traineeID, Title: "Strength"})

	_, err := svc.CreateActivity(context.Background(), traineePrincipal(traineeID), ActivityCreateInput{
		PlanID: oidPtr(plan.ID),
		Name:   "Squat",
		Type:   domain.ActivityStrength,
	})
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCreateActivity_TrainerOnForeignPlanMasked(t *testing.T) {
	plans, _, svc := newActivityFixture()
	plan := plans.add(domain.Plan{TrainerID: oid(), TraineeID: oid(), Title: "Strength"})

	_, err := svc.CreateActivity(context.Background(), trainerPrincipal(oid()), ActivityCreateInput{
		PlanID: oidPtr(plan.ID),
		Name:   "Squat",
		Type:   domain.ActivityStrength,
	})
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCreateActivity_TrainerOnOwnPlan(t *testing.T) {
	plans, activities, svc := newActivityFixture()
	trainerID := oid()
	plan := plans.add(domain.Plan{TrainerID: trainerID, TraineeID: oid(), Title: "Strength"})

	reps := 5
	activity, err := svc.CreateActivity(context.Background(), trainerPrincipal(trainerID), ActivityCreateInput{
		PlanID: oidPtr(plan.ID),
		Name:   "Squat",
		Type:   domain.ActivityStrength,
		Reps:   &reps,
	})
	require.NoError(t, err)
	require.NotNil(t, activity.PlanID)
	assert.Equal(t, plan.ID, *activity.PlanID)

	_, err = activities.GetByID(context.Background(), activity.ID)
	assert.NoError(t, err)
}

func TestCreateActivity_CatalogActivityWithoutPlan(t *testing.T) {
	_, _, svc := newActivityFixture()

	activity, err := svc.CreateActivity(context.Background(), trainerPrincipal(oid()), ActivityCreateInput{
		Name: "Jogging",
		Type: domain.ActivityCardio,
	})
	require.NoError(t, err)
	assert.Nil(t, activity.PlanID)
}

func TestGetActivityByID_ReadThroughPlan(t *testing.T) {
	plans, activities, svc := newActivityFixture()
	trainerID := oid()
	traineeID := oid()
	plan := plans.add(domain.Plan{TrainerID: trainerID, TraineeID: traineeID, Title: "Strength"})
	activity := activities.add(domain.Activity{PlanID: oidPtr(plan.ID), Name: "Squat", Type: domain.ActivityStrength})

	_, err := svc.GetActivityByID(context.Background(), trainerPrincipal(trainerID), activity.ID)
	assert.NoError(t, err)

	_, err = svc.GetActivityByID(context.Background(), traineePrincipal(traineeID), activity.ID)
	assert.NoError(t, err)

	_, err = svc.GetActivityByID(context.Background(), trainerPrincipal(oid()), activity.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = svc.GetActivityByID(context.Background(), traineePrincipal(oid()), activity.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestGetActivityByID_CatalogHiddenFromTrainees(t *testing.T) {
	_, activities, svc := newActivityFixture()
	catalog := activities.add(domain.Activity{Name: "Jogging", Type: domain.ActivityCardio})

	_, err := svc.GetActivityByID(context.Background(), trainerPrincipal(oid()), catalog.ID)
	assert.NoError(t, err)

	_, err = svc.GetActivityByID(context.Background(), traineePrincipal(oid()), catalog.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestUpdateActivity_TraineeMayEditOwnPlanActivity(t *testing.T) {
	plans, activities, svc := newActivityFixture()
	traineeID := oid()
	plan := plans.add(domain.Plan{TrainerID: oid(), TraineeID: traineeID, Title: "Strength"})
	activity := activities.add(domain.Activity{PlanID: oidPtr(plan.ID), Name: "Squat", Type: domain.ActivityStrength})

	// Trainees cannot create activities but may adjust the ones on their
	// own plan, e.g. logging the weight they actually lifted.
	weight := 82.5
	updated, err := svc.UpdateActivity(context.Background(), traineePrincipal(traineeID), activity.ID, ActivityUpdateInput{
		Weight: &weight,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Weight)
	assert.Equal(t, 82.5, *updated.Weight)
}

func TestUpdateActivity_ForeignTraineeMasked(t *testing.T) {
	plans, activities, svc := newActivityFixture()
	plan := plans.add(domain.Plan{TrainerID: oid(), TraineeID: oid(), Title: "Strength"})
	activity := activities.add(domain.Activity{PlanID: oidPtr(plan.ID), Name: "Squat", Type: domain.ActivityStrength})

	name := "Deadlift"
	_, err := svc.UpdateActivity(context.Background(), traineePrincipal(oid()), activity.ID, ActivityUpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestDeleteActivity_TraineeOwnPlanAllowed(t *testing.T) {
	plans, activities, svc := newActivityFixture()
	traineeID := oid()
	plan := plans.add(domain.Plan{TrainerID: oid(), TraineeID: traineeID, Title: "Strength"})
	activity := activities.add(domain.Activity{PlanID: oidPtr(plan.ID), Name: "Squat", Type: domain.ActivityStrength})

	require.NoError(t, svc.DeleteActivity(context.Background(), traineePrincipal(traineeID), activity.ID))

	_, err := activities.GetByID(context.Background(), activity.ID)
	assert.Error(t, err)
}

func TestListActivities_UnauthorizedFilterYieldsEmptySlice(t *testing.T) {
	plans, activities, svc := newActivityFixture()
	trainerID := oid()
	plan := plans.add(domain.Plan{TrainerID: trainerID, TraineeID: oid(), Title: "Strength"})
	activities.add(domain.Activity{PlanID: oidPtr(plan.ID), Name: "Squat", Type: domain.ActivityStrength})
	activities.add(domain.Activity{PlanID: oidPtr(plan.ID), Name: "Bench", Type: domain.ActivityStrength})

	// Authorized filter returns the plan's activities.
	got, err := svc.ListActivities(context.Background(), trainerPrincipal(trainerID), oidPtr(plan.ID))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// A filter on someone else's plan is answered with an empty slice, not
	// an error and not a peek at the first row.
	got, err = svc.ListActivities(context.Background(), trainerPrincipal(oid()), oidPtr(plan.ID))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.ListActivities(context.Background(), traineePrincipal(oid()), oidPtr(plan.ID))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListActivities_RoleScopedWithoutFilter(t *testing.T) {
	plans, activities, svc := newActivityFixture()
	trainerID := oid()
	traineeID := oid()
	myPlan := plans.add(domain.Plan{TrainerID: trainerID, TraineeID: traineeID, Title: "Mine"})
	otherPlan := plans.add(domain.Plan{TrainerID: oid(), TraineeID: oid(), Title: "Other"})
	activities.add(domain.Activity{PlanID: oidPtr(myPlan.ID), Name: "Squat", Type: domain.ActivityStrength})
	activities.add(domain.Activity{PlanID: oidPtr(otherPlan.ID), Name: "Row", Type: domain.ActivityStrength})

	mine, err := svc.ListActivities(context.Background(), trainerPrincipal(trainerID), nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Squat", mine[0].Name)

	assigned, err := svc.ListActivities(context.Background(), traineePrincipal(traineeID), nil)
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	all, err := svc.ListActivities(context.Background(), adminPrincipal(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
