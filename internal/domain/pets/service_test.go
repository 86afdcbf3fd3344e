package pets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	imgmem "get-a-pet/internal/adapters/images/memory"
	usermem "get-a-pet/internal/adapters/users/memory"
	"get-a-pet/internal/ports/users"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Pet

	failCreate error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(_ context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (r *testRepo) list(keep func(Pet) bool) []Pet {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	SortStable(out)
	return out
}

func (r *testRepo) List(context.Context) ([]Pet, error) {
	return r.list(func(Pet) bool { return true }), nil
}

func (r *testRepo) ListByOwner(_ context.Context, ownerID string) ([]Pet, error) {
	return r.list(func(p Pet) bool { return p.OwnerID == ownerID }), nil
}

func (r *testRepo) ListByAdopter(_ context.Context, userID string) ([]Pet, error) {
	return r.list(func(p Pet) bool { return p.Adopters.Has(userID) }), nil
}

func (r *testRepo) Mutate(_ context.Context, id string, fn func(*Pet) error) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	next := p.Clone()
	if err := fn(&next); err != nil {
		return Pet{}, err
	}
	r.byID[id] = next.Clone()
	return next, nil
}

func (r *testRepo) Delete(_ context.Context, id string, guard func(Pet) error) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	if guard != nil {
		if err := guard(p.Clone()); err != nil {
			return Pet{}, err
		}
	}
	delete(r.byID, id)
	return p, nil
}

// failingImages falla en el Save número failAt (1-based).
type failingImages struct {
	*imgmem.Store
	failAt int
	saves  int
}

func (f *failingImages) Save(ctx context.Context, key string, data []byte, ct string) (string, error) {
	f.saves++
	if f.saves == f.failAt {
		return "", errors.New("disk full")
	}
	return f.Store.Save(ctx, key, data, ct)
}

type recordingMetrics struct {
	mu   sync.Mutex
	seen []string
}

func (m *recordingMetrics) Observe(op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, op+":"+outcome)
}

// -------------------------
// Helpers
// -------------------------

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

var (
	u1 = Identity{UserID: "u1"}
	u2 = Identity{UserID: "u2"}
	u3 = Identity{UserID: "u3"}
)

type fixture struct {
	svc    *Service
	repo   *testRepo
	images *imgmem.Store
	dir    *usermem.Directory

	mu    sync.Mutex
	clock time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	dir := usermem.NewDirectory(
		users.User{ID: "u1", Name: "Ana", Phone: "11 99999-0000", Image: "ana.png"},
		users.User{ID: "u2", Name: "Bruno", Phone: "21 98888-1111"},
	)
	f := &fixture{
		repo:   newTestRepo(),
		images: imgmem.NewStore(),
		dir:    dir,
		clock:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.repo, f.images, f.dir, opts...)
	f.svc.now = func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func boolp(v bool) *bool        { return &v }

func rex() CreateInput {
	return CreateInput{Fields: Fields{Name: "Rex", Age: intp(2), Weight: floatp(10.5), Color: "Marrom"}}
}

func (f *fixture) create(t *testing.T, owner Identity, in CreateInput) Pet {
	t.Helper()
	view, err := f.svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return view.Pet
}

// -------------------------
// Create
// -------------------------

func TestCreate_NewPetIsAvailableWithoutAdopters(t *testing.T) {
	f := newFixture(t)
	in := rex()
	in.Description = "  dócil  "
	in.Images = []Upload{{Filename: "a.png", Data: pngBytes}, {Filename: "b.jpg", Data: jpegBytes}}

	view, err := f.svc.Create(context.Background(), u1, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p := view.Pet
	if !p.Available || p.Adopters.Len() != 0 {
		t.Fatalf("expected available with no adopters, got %+v", p)
	}
	if p.OwnerID != "u1" || p.Description != "dócil" {
		t.Fatalf("unexpected pet: %+v", p)
	}
	if len(p.Images) != 2 || !strings.HasSuffix(p.Images[0], ".png") || !strings.HasSuffix(p.Images[1], ".jpg") {
		t.Fatalf("unexpected images: %v", p.Images)
	}
	if !strings.HasPrefix(p.Images[0], "pets/"+p.ID+"/") {
		t.Fatalf("image key should be scoped to the pet: %s", p.Images[0])
	}
	if view.Owner.Phone != "11 99999-0000" || view.Owner.Name != "Ana" {
		t.Fatalf("owner summary not resolved: %+v", view.Owner)
	}
	if f.images.Len() != 2 {
		t.Fatalf("expected 2 stored images, got %d", f.images.Len())
	}

	stored, err := f.repo.GetByID(context.Background(), p.ID)
	if err != nil || !stored.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("pet not persisted: %+v %v", stored, err)
	}
}

func TestCreate_ImagesAreOptional(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())
	if p.Images == nil || len(p.Images) != 0 {
		t.Fatalf("expected empty non-nil images, got %#v", p.Images)
	}
}

func TestCreate_ValidationReportsFirstFieldInOrder(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name  string
		in    CreateInput
		field string
		msg   string
	}{
		{"all missing", CreateInput{}, "name", msgNameRequired},
		{"blank name", CreateInput{Fields: Fields{Name: "  ", Age: intp(1)}}, "name", msgNameRequired},
		{"missing age", CreateInput{Fields: Fields{Name: "Rex"}}, "age", msgAgeRequired},
		{"negative age", CreateInput{Fields: Fields{Name: "Rex", Age: intp(-1), Weight: floatp(1), Color: "x"}}, "age", msgAgeInvalid},
		{"missing weight", CreateInput{Fields: Fields{Name: "Rex", Age: intp(0), Color: "x"}}, "weight", msgWeightRequired},
		{"negative weight", CreateInput{Fields: Fields{Name: "Rex", Age: intp(0), Weight: floatp(-0.5), Color: "x"}}, "weight", msgWeightInvalid},
		{"infinite weight", CreateInput{Fields: Fields{Name: "Rex", Age: intp(0), Weight: floatp(math.Inf(1)), Color: "x"}}, "weight", msgWeightInvalid},
		{"NaN weight", CreateInput{Fields: Fields{Name: "Rex", Age: intp(0), Weight: floatp(math.NaN()), Color: "x"}}, "weight", msgWeightInvalid},
		{"missing color", CreateInput{Fields: Fields{Name: "Rex", Age: intp(0), Weight: floatp(0)}}, "color", msgColorRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), u1, tc.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field || ve.Message != tc.msg {
				t.Fatalf("expected %s/%q, got %s/%q", tc.field, tc.msg, ve.Field, ve.Message)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("ValidationError should unwrap to ErrInvalidInput")
			}
		})
	}

	if items, _ := f.repo.List(context.Background()); len(items) != 0 {
		t.Fatalf("invalid creates must not persist anything")
	}
}

func TestCreate_RejectsNonImageUploads(t *testing.T) {
	f := newFixture(t)
	in := rex()
	in.Images = []Upload{{Filename: "a.png", Data: pngBytes}, {Filename: "notes.png", Data: []byte("plain text")}}

	_, err := f.svc.Create(context.Background(), u1, in)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "images" || ve.Message != msgImageType {
		t.Fatalf("expected images validation error, got %v", err)
	}
	if f.images.Len() != 0 {
		t.Fatalf("nothing should be stored when an upload is rejected")
	}
}

func TestCreate_RequiresIdentity(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), Identity{}, rex()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreate_ImageFailureLeavesNoPartialState(t *testing.T) {
	f := newFixture(t)
	imgs := &failingImages{Store: imgmem.NewStore(), failAt: 2}
	f.svc.images = imgs

	in := rex()
	in.Images = []Upload{{Data: pngBytes}, {Data: pngBytes}}

	_, err := f.svc.Create(context.Background(), u1, in)
	if !errors.Is(err, ErrDependency) {
		t.Fatalf("expected ErrDependency, got %v", err)
	}
	if imgs.Len() != 0 {
		t.Fatalf("first image should have been discarded, store has %d", imgs.Len())
	}
	if items, _ := f.repo.List(context.Background()); len(items) != 0 {
		t.Fatalf("no pet should be created")
	}
}

func TestCreate_RepoFailureDiscardsImages(t *testing.T) {
	f := newFixture(t)
	f.repo.failCreate = errors.New("db down")

	in := rex()
	in.Images = []Upload{{Data: pngBytes}}

	_, err := f.svc.Create(context.Background(), u1, in)
	if !errors.Is(err, ErrDependency) {
		t.Fatalf("expected ErrDependency, got %v", err)
	}
	if f.images.Len() != 0 {
		t.Fatalf("stored images should be discarded after repo failure")
	}
}

func TestCreate_OwnerMissingFromDirectoryStillCreates(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.Create(context.Background(), Identity{UserID: "ghost"}, rex())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Owner.ID != "ghost" || view.Owner.Phone != "" {
		t.Fatalf("expected minimal owner summary, got %+v", view.Owner)
	}
}

// -------------------------
// Read
// -------------------------

func TestGet_MalformedIDIsValidationNotNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "not-a-uuid")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "id" || ve.Message != msgInvalidID {
		t.Fatalf("expected id validation error, got %v", err)
	}

	_, err = f.svc.Get(context.Background(), "6f1c1b7e-8f0a-4c55-9d5e-6a0b5b9f3c21")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_PublicWithOwnerSummary(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())

	view, err := f.svc.Get(context.Background(), strings.ToUpper(p.ID))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Pet.ID != p.ID || view.Owner.Name != "Ana" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestLists(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, u1, rex())
	b := f.create(t, u2, rex())
	c := f.create(t, u1, rex())

	all, _ := f.svc.List(context.Background())
	if ids(all) != ids([]Pet{a, b, c}) {
		t.Fatalf("list should be in creation order")
	}
	again, _ := f.svc.List(context.Background())
	if ids(all) != ids(again) {
		t.Fatalf("list must be stable across calls")
	}

	mine, err := f.svc.ListOwned(context.Background(), u1)
	if err != nil || ids(mine) != ids([]Pet{a, c}) {
		t.Fatalf("unexpected owned list: %v %v", ids(mine), err)
	}

	if _, err := f.svc.Schedule(context.Background(), b.ID, u1); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	adopted, err := f.svc.ListAdopted(context.Background(), u1)
	if err != nil || ids(adopted) != ids([]Pet{b}) {
		t.Fatalf("unexpected adopted list: %v %v", ids(adopted), err)
	}

	if _, err := f.svc.ListOwned(context.Background(), Identity{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := f.svc.ListAdopted(context.Background(), Identity{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

// -------------------------
// Update / Delete
// -------------------------

func updateInput(available bool) UpdateInput {
	return UpdateInput{
		Fields:    Fields{Name: "Rex II", Age: intp(3), Description: "maior", Weight: floatp(12), Color: "Preto"},
		Available: boolp(available),
	}
}

func TestUpdate_OwnerReplacesFieldsAndAppendsImages(t *testing.T) {
	f := newFixture(t)
	in := rex()
	in.Images = []Upload{{Data: pngBytes}}
	p := f.create(t, u1, in)

	up := updateInput(true)
	up.Images = []Upload{{Data: jpegBytes}}
	updated, err := f.svc.Update(context.Background(), p.ID, u1, up)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Rex II" || updated.Age != 3 || updated.Weight != 12 || updated.Color != "Preto" {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if len(updated.Images) != 2 || updated.Images[0] != p.Images[0] {
		t.Fatalf("new images must be appended after existing ones: %v", updated.Images)
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) || !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("timestamps not maintained: %+v", updated)
	}
}

func TestUpdate_AvailableIsPlainOverwrite(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())

	closed, err := f.svc.Update(context.Background(), p.ID, u1, updateInput(false))
	if err != nil || closed.Available || closed.ConcludedAt == nil {
		t.Fatalf("expected closed pet with concluded_at: %+v %v", closed, err)
	}
	reopened, err := f.svc.Update(context.Background(), p.ID, u1, updateInput(true))
	if err != nil || !reopened.Available || reopened.ConcludedAt != nil {
		t.Fatalf("expected reopened pet: %+v %v", reopened, err)
	}
}

func TestUpdate_RequiresAvailable(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())

	up := updateInput(true)
	up.Available = nil
	_, err := f.svc.Update(context.Background(), p.ID, u1, up)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "available" || ve.Message != msgStatusRequired {
		t.Fatalf("expected available validation error, got %v", err)
	}
}

func TestUpdateDelete_NonOwnerLooksLikeMissing(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())
	missing := "0d7f3f9e-2c4b-4a57-8a4e-3b1b8f2c9d10"
	ctx := context.Background()

	_, errForeign := f.svc.Update(ctx, p.ID, u2, updateInput(true))
	_, errMissing := f.svc.Update(ctx, missing, u2, updateInput(true))
	if !errors.Is(errForeign, ErrNotFound) || !errors.Is(errMissing, ErrNotFound) {
		t.Fatalf("update: expected not found for both, got %v / %v", errForeign, errMissing)
	}
	if errForeign.Error() != errMissing.Error() {
		t.Fatalf("update errors must be indistinguishable: %q vs %q", errForeign, errMissing)
	}

	errForeign = f.svc.Delete(ctx, p.ID, u2)
	errMissing = f.svc.Delete(ctx, missing, u2)
	if !errors.Is(errForeign, ErrNotFound) || errForeign.Error() != errMissing.Error() {
		t.Fatalf("delete errors must be indistinguishable: %v vs %v", errForeign, errMissing)
	}

	if _, err := f.repo.GetByID(ctx, p.ID); err != nil {
		t.Fatalf("pet must survive foreign delete: %v", err)
	}
}

func TestUpdate_ForeignUploadsAreNotStored(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())

	up := updateInput(true)
	up.Images = []Upload{{Data: pngBytes}}
	if _, err := f.svc.Update(context.Background(), p.ID, u2, up); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.images.Len() != 0 {
		t.Fatalf("images of a rejected update must not be stored")
	}
}

func TestDelete_OwnerRemoves(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())

	if err := f.svc.Delete(context.Background(), p.ID, u1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), p.ID, Identity{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), "bad id", u1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// -------------------------
// Schedule / Conclude
// -------------------------

func TestSchedule_DuplicateAddsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())
	ctx := context.Background()

	res, err := f.svc.Schedule(ctx, p.ID, u2)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	want := msgScheduledPrefix + " Ana pelo telefone: 11 99999-0000"
	if res.Message != want {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.Owner.Phone != "11 99999-0000" {
		t.Fatalf("expected owner phone in result")
	}

	_, err = f.svc.Schedule(ctx, p.ID, u2)
	if !IsConflict(err, ReasonDuplicate) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	got, _ := f.repo.GetByID(ctx, p.ID)
	if got.Adopters.Len() != 1 || !got.Adopters.Has("u2") {
		t.Fatalf("expected adopters={u2}, got %v", got.Adopters.IDs())
	}
}

func TestSchedule_OwnPetAlwaysConflicts(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())
	ctx := context.Background()

	if _, err := f.svc.Schedule(ctx, p.ID, u1); !IsConflict(err, ReasonOwnPet) {
		t.Fatalf("expected own pet conflict on empty adopters, got %v", err)
	}
	if _, err := f.svc.Schedule(ctx, p.ID, u2); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := f.svc.Schedule(ctx, p.ID, u1); !IsConflict(err, ReasonOwnPet) {
		t.Fatalf("expected own pet conflict with adopters, got %v", err)
	}

	got, _ := f.repo.GetByID(ctx, p.ID)
	if got.Adopters.Has(got.OwnerID) {
		t.Fatalf("owner must never be an adopter")
	}
}

func TestSchedule_ConcludedPetIsUnavailable(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())
	ctx := context.Background()

	if _, err := f.svc.Conclude(ctx, p.ID, u3); err != nil {
		t.Fatalf("Conclude: %v", err)
	}
	if _, err := f.svc.Schedule(ctx, p.ID, u2); !IsConflict(err, ReasonUnavailable) {
		t.Fatalf("expected unavailable conflict, got %v", err)
	}
	// dueño sigue viendo own_pet primero
	if _, err := f.svc.Schedule(ctx, p.ID, u1); !IsConflict(err, ReasonOwnPet) {
		t.Fatalf("expected own pet conflict, got %v", err)
	}
}

func TestSchedule_MessageWithoutPhone(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, Identity{UserID: "ghost"}, rex())

	res, err := f.svc.Schedule(context.Background(), p.ID, u2)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.Message != msgScheduledPrefix+" o tutor" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestSchedule_ErrorsBeforeWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Schedule(ctx, "nope", u2); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.Schedule(ctx, "0d7f3f9e-2c4b-4a57-8a4e-3b1b8f2c9d10", u2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p := f.create(t, u1, rex())
	if _, err := f.svc.Schedule(ctx, p.ID, Identity{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSchedule_ConcurrentRequests(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, dup := 0, 0

	// n usuarios distintos + n intentos del mismo usuario
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if _, err := f.svc.Schedule(ctx, p.ID, Identity{UserID: fmt.Sprintf("user-%d", i)}); err != nil {
				t.Errorf("Schedule user-%d: %v", i, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			_, err := f.svc.Schedule(ctx, p.ID, u2)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case IsConflict(err, ReasonDuplicate):
				dup++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || dup != n-1 {
		t.Fatalf("same user: expected 1 ok and %d duplicates, got %d/%d", n-1, ok, dup)
	}
	got, _ := f.repo.GetByID(ctx, p.ID)
	if got.Adopters.Len() != n+1 {
		t.Fatalf("expected %d adopters, got %d", n+1, got.Adopters.Len())
	}
}

func TestConclude_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, u1, rex())
	ctx := context.Background()

	first, err := f.svc.Conclude(ctx, p.ID, u3)
	if err != nil || first.Available || first.ConcludedAt == nil {
		t.Fatalf("first conclude: %+v %v", first, err)
	}
	second, err := f.svc.Conclude(ctx, p.ID, u2)
	if err != nil || second.Available {
		t.Fatalf("second conclude: %+v %v", second, err)
	}
	if !second.ConcludedAt.Equal(*first.ConcludedAt) || !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("second conclude must not change state")
	}

	if _, err := f.svc.Conclude(ctx, p.ID, Identity{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := f.svc.Conclude(ctx, "0d7f3f9e-2c4b-4a57-8a4e-3b1b8f2c9d10", u1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConclude_MissingPetWinsOverMissingIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Conclude(ctx, "0d7f3f9e-2c4b-4a57-8a4e-3b1b8f2c9d10", Identity{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p := f.create(t, u1, rex())
	if _, err := f.svc.Conclude(ctx, p.ID, Identity{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	got, _ := f.repo.GetByID(ctx, p.ID)
	if !got.Available {
		t.Fatalf("anonymous conclude must not change the pet")
	}
}

func TestConclude_OwnerOrAdopterPolicy(t *testing.T) {
	f := newFixture(t, WithConcludePolicy(ConcludeOwnerOrAdopter))
	p := f.create(t, u1, rex())
	ctx := context.Background()

	if _, err := f.svc.Conclude(ctx, p.ID, u3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stranger should not conclude, got %v", err)
	}
	if _, err := f.svc.Schedule(ctx, p.ID, u2); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got, err := f.svc.Conclude(ctx, p.ID, u2); err != nil || got.Available {
		t.Fatalf("adopter should conclude: %+v %v", got, err)
	}
}

func TestMetrics_ObservesOutcomes(t *testing.T) {
	m := &recordingMetrics{}
	f := newFixture(t, WithMetrics(m))
	p := f.create(t, u1, rex())
	_, _ = f.svc.Schedule(context.Background(), p.ID, u1)
	_, _ = f.svc.Get(context.Background(), "bad")

	got := append([]string(nil), m.seen...)
	sort.Strings(got)
	want := []string{"create:ok", "read:invalid", "schedule:conflict"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected observations: %v", got)
	}
}

// Escenario completo del ciclo de adopción.
func TestScenario_AdoptionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, u1, rex())

	all, _ := f.svc.List(ctx)
	if len(all) != 1 || all[0].ID != a.ID || !all[0].Available {
		t.Fatalf("ListPets should include A available")
	}

	if _, err := f.svc.Schedule(ctx, a.ID, u2); err != nil {
		t.Fatalf("U2 schedule: %v", err)
	}
	if _, err := f.svc.Schedule(ctx, a.ID, u2); !IsConflict(err, ReasonDuplicate) {
		t.Fatalf("U2 second schedule: expected duplicate, got %v", err)
	}
	if _, err := f.svc.Schedule(ctx, a.ID, u1); !IsConflict(err, ReasonOwnPet) {
		t.Fatalf("U1 schedule: expected own pet, got %v", err)
	}

	concluded, err := f.svc.Conclude(ctx, a.ID, u3)
	if err != nil || concluded.Available {
		t.Fatalf("conclude: %+v %v", concluded, err)
	}
	if ids := concluded.Adopters.IDs(); len(ids) != 1 || ids[0] != "u2" {
		t.Fatalf("adopters should be {u2}, got %v", ids)
	}

	if err := f.svc.Delete(ctx, a.ID, u1); err != nil {
		t.Fatalf("U1 delete: %v", err)
	}
	if err := f.svc.Delete(ctx, a.ID, u3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("U3 delete: expected not found, got %v", err)
	}
}

func ids(items []Pet) string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return strings.Join(out, ",")
}
