package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes implementing the repository interfaces. They mirror the
// lookup semantics of the mongo implementations, including the rule that
// ownership predicates resolve missing records to false rather than an error.

// --- Profile ---

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[primitive.ObjectID]*domain.Profile)}
}

func (f *fakeProfileRepo) add(p domain.Profile) *domain.Profile {
	if p.ID == primitive.NilObjectID {
		p.ID = primitive.NewObjectID()
	}
	f.profiles[p.ID] = &p
	return &p
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now().UTC()
	profile.UpdatedAt = profile.CreatedAt
	cp := *profile
	f.profiles[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) GetAll(ctx context.Context) ([]domain.Profile, error) {
	out := []domain.Profile{}
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProfileRepo) GetTraineesByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Profile, error) {
	out := []domain.Profile{}
	for _, p := range f.profiles {
		if p.TrainerID != nil && *p.TrainerID == trainerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) SetTrainerForTrainee(ctx context.Context, traineeID, trainerID primitive.ObjectID) error {
	p, ok := f.profiles[traineeID]
	if !ok {
		return repository.ErrNotFound
	}
	id := trainerID
	p.TrainerID = &id
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	if _, ok := f.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *profile
	f.profiles[cp.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.profiles, id)
	return nil
}

func (f *fakeProfileRepo) IsManagedByTrainer(ctx context.Context, traineeID, trainerID primitive.ObjectID) (bool, error) {
	p, ok := f.profiles[traineeID]
	if !ok {
		return false, nil
	}
	return p.TrainerID != nil && *p.TrainerID == trainerID, nil
}

// --- Plan ---

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[primitive.ObjectID]*domain.Plan)}
}

func (f *fakePlanRepo) add(p domain.Plan) *domain.Plan {
	if p.ID == primitive.NilObjectID {
		p.ID = primitive.NewObjectID()
	}
	f.plans[p.ID] = &p
	return &p
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	plan.UpdatedAt = plan.CreatedAt
	cp := *plan
	f.plans[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlanRepo) GetAll(ctx context.Context) ([]domain.Plan, error) {
	out := []domain.Plan{}
	for _, p := range f.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePlanRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Plan, error) {
	out := []domain.Plan{}
	for _, p := range f.plans {
		if p.TrainerID == trainerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Plan, error) {
	out := []domain.Plan{}
	for _, p := range f.plans {
		if p.TraineeID == traineeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *domain.Plan) error {
	existing, ok := f.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	// Ownership links never change on update, matching the mongo $set.
	existing.Title = plan.Title
	existing.Description = plan.Description
	existing.From = plan.From
	existing.To = plan.To
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakePlanRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.plans, id)
	return nil
}

func (f *fakePlanRepo) IsOwnedByTrainee(ctx context.Context, planID, traineeID primitive.ObjectID) (bool, error) {
	p, ok := f.plans[planID]
	if !ok {
		return false, nil
	}
	return p.TraineeID == traineeID, nil
}

func (f *fakePlanRepo) IsAccessibleByTrainer(ctx context.Context, planID, trainerID primitive.ObjectID) (bool, error) {
	p, ok := f.plans[planID]
	if !ok {
		return false, nil
	}
	return p.TrainerID == trainerID, nil
}

// --- Activity ---

type fakeActivityRepo struct {
	activities map[primitive.ObjectID]*domain.Activity
	plans      *fakePlanRepo
}

func newFakeActivityRepo(plans *fakePlanRepo) *fakeActivityRepo {
	return &fakeActivityRepo{
		activities: make(map[primitive.ObjectID]*domain.Activity),
		plans:      plans,
	}
}

func (f *fakeActivityRepo) add(a domain.Activity) *domain.Activity {
	if a.ID == primitive.NilObjectID {
		a.ID = primitive.NewObjectID()
	}
	f.activities[a.ID] = &a
	return &a
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now().UTC()
	activity.UpdatedAt = activity.CreatedAt
	cp := *activity
	f.activities[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeActivityRepo) GetAll(ctx context.Context) ([]domain.Activity, error) {
	out := []domain.Activity{}
	for _, a := range f.activities {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Activity, error) {
	out := []domain.Activity{}
	for _, a := range f.activities {
		if a.PlanID == nil {
			continue
		}
		if p, ok := f.plans.plans[*a.PlanID]; ok && p.TrainerID == trainerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Activity, error) {
	out := []domain.Activity{}
	for _, a := range f.activities {
		if a.PlanID == nil {
			continue
		}
		if p, ok := f.plans.plans[*a.PlanID]; ok && p.TraineeID == traineeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Activity, error) {
	out := []domain.Activity{}
	for _, a := range f.activities {
		if a.PlanID != nil && *a.PlanID == planID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) Update(ctx context.Context, activity *domain.Activity) error {
	existing, ok := f.activities[activity.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = activity.Name
	existing.Type = activity.Type
	existing.Description = activity.Description
	existing.Weight = activity.Weight
	existing.Reps = activity.Reps
	existing.Sets = activity.Sets
	existing.Duration = activity.Duration
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeActivityRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.activities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.activities, id)
	return nil
}

// --- Train ---

type fakeTrainRepo struct {
	trains map[primitive.ObjectID]*domain.Train
	plans  *fakePlanRepo
}

func newFakeTrainRepo(plans *fakePlanRepo) *fakeTrainRepo {
	return &fakeTrainRepo{
		trains: make(map[primitive.ObjectID]*domain.Train),
		plans:  plans,
	}
}

func (f *fakeTrainRepo) add(t domain.Train) *domain.Train {
	if t.ID == primitive.NilObjectID {
		t.ID = primitive.NewObjectID()
	}
	f.trains[t.ID] = &t
	return &t
}

func (f *fakeTrainRepo) Create(ctx context.Context, train *domain.Train) (primitive.ObjectID, error) {
	train.ID = primitive.NewObjectID()
	train.CreatedAt = time.Now().UTC()
	train.UpdatedAt = train.CreatedAt
	cp := *train
	f.trains[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeTrainRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Train, error) {
	t, ok := f.trains[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTrainRepo) GetAll(ctx context.Context) ([]domain.Train, error) {
	out := []domain.Train{}
	for _, t := range f.trains {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTrainRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Train, error) {
	out := []domain.Train{}
	for _, t := range f.trains {
		if p, ok := f.plans.plans[t.PlanID]; ok && p.TrainerID == trainerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTrainRepo) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Train, error) {
	out := []domain.Train{}
	for _, t := range f.trains {
		if p, ok := f.plans.plans[t.PlanID]; ok && p.TraineeID == traineeID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTrainRepo) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Train, error) {
	out := []domain.Train{}
	for _, t := range f.trains {
		if t.PlanID == planID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTrainRepo) Update(ctx context.Context, train *domain.Train) error {
	existing, ok := f.trains[train.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.WeekDay = train.WeekDay
	existing.From = train.From
	existing.To = train.To
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeTrainRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.trains[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.trains, id)
	return nil
}

// --- Report ---

type fakeReportRepo struct {
	reports   map[primitive.ObjectID]*domain.Report
	bodyParts *fakeBodyPartRepo
	profiles  *fakeProfileRepo
}

func newFakeReportRepo(profiles *fakeProfileRepo) *fakeReportRepo {
	return &fakeReportRepo{
		reports:  make(map[primitive.ObjectID]*domain.Report),
		profiles: profiles,
	}
}

func (f *fakeReportRepo) add(r domain.Report) *domain.Report {
	if r.ID == primitive.NilObjectID {
		r.ID = primitive.NewObjectID()
	}
	f.reports[r.ID] = &r
	return &r
}

func (f *fakeReportRepo) Create(ctx context.Context, report *domain.Report) (primitive.ObjectID, error) {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now().UTC()
	cp := *report
	f.reports[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeReportRepo) CreateWithBodyParts(ctx context.Context, report *domain.Report, parts []domain.BodyPart) (primitive.ObjectID, error) {
	id, err := f.Create(ctx, report)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if f.bodyParts != nil {
		for i := range parts {
			parts[i].ReportID = id
			if _, err := f.bodyParts.Create(ctx, &parts[i]); err != nil {
				return primitive.NilObjectID, err
			}
		}
	}
	return id, nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReportRepo) GetAll(ctx context.Context) ([]domain.Report, error) {
	out := []domain.Report{}
	for _, r := range f.reports {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReportRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Report, error) {
	out := []domain.Report{}
	for _, r := range f.reports {
		if p, ok := f.profiles.profiles[r.ProfileID]; ok && p.TrainerID != nil && *p.TrainerID == trainerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Report, error) {
	return f.GetByProfileID(ctx, traineeID)
}

func (f *fakeReportRepo) GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Report, error) {
	out := []domain.Report{}
	for _, r := range f.reports {
		if r.ProfileID == profileID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) Update(ctx context.Context, report *domain.Report) error {
	existing, ok := f.reports[report.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Content = report.Content
	existing.IMC = report.IMC
	existing.BodyFat = report.BodyFat
	existing.Weight = report.Weight
	existing.Height = report.Height
	return nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.reports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeReportRepo) IsOwnedByTrainer(ctx context.Context, reportID, trainerID primitive.ObjectID) (bool, error) {
	r, ok := f.reports[reportID]
	if !ok {
		return false, nil
	}
	p, ok := f.profiles.profiles[r.ProfileID]
	if !ok {
		return false, nil
	}
	return p.TrainerID != nil && *p.TrainerID == trainerID, nil
}

// --- BodyPart ---

type fakeBodyPartRepo struct {
	parts    map[primitive.ObjectID]*domain.BodyPart
	reports  *fakeReportRepo
	profiles *fakeProfileRepo
}

func newFakeBodyPartRepo(reports *fakeReportRepo, profiles *fakeProfileRepo) *fakeBodyPartRepo {
	f := &fakeBodyPartRepo{
		parts:    make(map[primitive.ObjectID]*domain.BodyPart),
		reports:  reports,
		profiles: profiles,
	}
	reports.bodyParts = f
	return f
}

func (f *fakeBodyPartRepo) add(b domain.BodyPart) *domain.BodyPart {
	if b.ID == primitive.NilObjectID {
		b.ID = primitive.NewObjectID()
	}
	f.parts[b.ID] = &b
	return &b
}

func (f *fakeBodyPartRepo) Create(ctx context.Context, part *domain.BodyPart) (primitive.ObjectID, error) {
	part.ID = primitive.NewObjectID()
	cp := *part
	f.parts[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeBodyPartRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BodyPart, error) {
	b, ok := f.parts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBodyPartRepo) GetAll(ctx context.Context) ([]domain.BodyPart, error) {
	out := []domain.BodyPart{}
	for _, b := range f.parts {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBodyPartRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.BodyPart, error) {
	out := []domain.BodyPart{}
	for _, b := range f.parts {
		ok, _ := f.HasAccess(ctx, b.ID, trainerID, domain.RoleTrainer)
		if ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBodyPartRepo) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.BodyPart, error) {
	out := []domain.BodyPart{}
	for _, b := range f.parts {
		ok, _ := f.HasAccess(ctx, b.ID, traineeID, domain.RoleTrainee)
		if ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBodyPartRepo) GetByReportID(ctx context.Context, reportID primitive.ObjectID) ([]domain.BodyPart, error) {
	out := []domain.BodyPart{}
	for _, b := range f.parts {
		if b.ReportID == reportID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBodyPartRepo) Update(ctx context.Context, part *domain.BodyPart) error {
	existing, ok := f.parts[part.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = part.Name
	existing.BodyFat = part.BodyFat
	return nil
}

func (f *fakeBodyPartRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.parts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.parts, id)
	return nil
}

func (f *fakeBodyPartRepo) HasAccess(ctx context.Context, bodyPartID, userID primitive.ObjectID, role domain.Role) (bool, error) {
	b, ok := f.parts[bodyPartID]
	if !ok {
		return false, nil
	}
	r, ok := f.reports.reports[b.ReportID]
	if !ok {
		return false, nil
	}
	if role == domain.RoleTrainee {
		return r.ProfileID == userID, nil
	}
	p, ok := f.profiles.profiles[r.ProfileID]
	if !ok {
		return false, nil
	}
	return p.TrainerID != nil && *p.TrainerID == userID, nil
}

// --- Attachment ---

type fakeAttachmentRepo struct {
	attachments map[primitive.ObjectID]*domain.Attachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[primitive.ObjectID]*domain.Attachment)}
}

func (f *fakeAttachmentRepo) Create(ctx context.Context, attachment *domain.Attachment) (primitive.ObjectID, error) {
	attachment.ID = primitive.NewObjectID()
	attachment.UploadedAt = time.Now().UTC()
	cp := *attachment
	f.attachments[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeAttachmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error) {
	a, ok := f.attachments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttachmentRepo) GetByReportID(ctx context.Context, reportID primitive.ObjectID) ([]domain.Attachment, error) {
	out := []domain.Attachment{}
	for _, a := range f.attachments {
		if a.ReportID == reportID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttachmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.attachments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.attachments, id)
	return nil
}

// --- Storage ---

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// --- Principal helpers ---

func trainerPrincipal(id primitive.ObjectID) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleTrainer, Email: "trainer@test.local", Name: "Trainer"}
}

func traineePrincipal(id primitive.ObjectID) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleTrainee, Email: "trainee@test.local", Name: "Trainee"}
}

func adminPrincipal() domain.Principal {
	return domain.Principal{ID: primitive.NewObjectID(), Role: domain.RoleAdmin, Email: "admin@test.local", Name: "Admin"}
}

func oid() primitive.ObjectID { return primitive.NewObjectID() }

func oidPtr(id primitive.ObjectID) *primitive.ObjectID { return &id }
