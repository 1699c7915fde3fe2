package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rolevend/pkg/utils"
)

func newCatalog() (CatalogService, *fakePlanRepo) {
	repo := newFakePlanRepo()
	return NewCatalogService(repo), repo
}

func validInput() PlanInput {
	return PlanInput{
		RoleID:       "role-1",
		Name:         "VIP",
		PriceMNT:     5000,
		DurationDays: 30,
	}
}

func TestCreatePlanValidation(t *testing.T) {
	svc, _ := newCatalog()
	ctx := context.Background()

	cases := map[string]PlanInput{
		"empty name":    {RoleID: "r", Name: "  ", PriceMNT: 100, DurationDays: 1},
		"empty role":    {RoleID: "", Name: "x", PriceMNT: 100, DurationDays: 1},
		"zero price":    {RoleID: "r", Name: "x", PriceMNT: 0, DurationDays: 1},
		"zero duration": {RoleID: "r", Name: "x", PriceMNT: 100, DurationDays: 0},
	}
	for name, in := range cases {
		_, err := svc.CreatePlan(ctx, "g1", in)
		assert.ErrorIs(t, err, utils.ErrInvalidPlanInput, name)
	}
}

func TestCreatePlanStartsActive(t *testing.T) {
	svc, _ := newCatalog()

	plan, err := svc.CreatePlan(context.Background(), "g1", validInput())
	require.NoError(t, err)
	assert.True(t, plan.Active)
	assert.Equal(t, "g1", plan.GuildID)
	assert.NotEqual(t, uuid.Nil, plan.ID)
}

func TestUpdatePlanGuildScoped(t *testing.T) {
	svc, _ := newCatalog()
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, "g1", validInput())
	require.NoError(t, err)

	_, err = svc.UpdatePlan(ctx, "other-guild", plan.ID, validInput(), nil)
	assert.ErrorIs(t, err, utils.ErrPlanNotInGuild)

	_, err = svc.UpdatePlan(ctx, "g1", uuid.New(), validInput(), nil)
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)
}

func TestUpdatePlanTogglesActive(t *testing.T) {
	svc, _ := newCatalog()
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, "g1", validInput())
	require.NoError(t, err)

	off := false
	updated, err := svc.UpdatePlan(ctx, "g1", plan.ID, validInput(), &off)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	// Nil leaves the flag alone.
	updated, err = svc.UpdatePlan(ctx, "g1", plan.ID, validInput(), nil)
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestDeletePlanIsSoft(t *testing.T) {
	svc, _ := newCatalog()
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, "g1", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, "g1", plan.ID))

	// Gone from regular reads.
	_, err = svc.GetPlan(ctx, "g1", plan.ID)
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)

	// Still resolvable for payment history.
	resolved, err := svc.ResolvePlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, resolved.ID)

	err = svc.DeletePlan(ctx, "g1", plan.ID)
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)
}

func TestListPlansFiltersInactive(t *testing.T) {
	svc, _ := newCatalog()
	ctx := context.Background()

	active, err := svc.CreatePlan(ctx, "g1", validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Hidden"
	hidden, err := svc.CreatePlan(ctx, "g1", in)
	require.NoError(t, err)
	off := false
	_, err = svc.UpdatePlan(ctx, "g1", hidden.ID, in, &off)
	require.NoError(t, err)

	visible, err := svc.ListPlans(ctx, "g1", false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	all, err := svc.ListPlans(ctx, "g1", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
