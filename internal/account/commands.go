package account

import (
	"context"
	"encoding/json"
	"errors"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/skybi/identity-server/internal/outcome"
	"golang.org/x/crypto/bcrypt"
	"strings"
)

// NewAccount holds the data of an account to create
type NewAccount struct {
	Username string
	Name     string
	Email    string
	Password string
	Tenant   *uuid.UUID
}

// PatchCommand applies a JSON patch document to an account.
// Actor is the account issuing the command, if known.
type PatchCommand struct {
	ID       uuid.UUID
	Actor    *uuid.UUID
	Document jsonpatch.Patch
}

// DeleteCommand deletes an account.
// Actor is the account issuing the command, if known.
type DeleteCommand struct {
	ID    uuid.UUID
	Actor *uuid.UUID
}

// Commands executes the account commands and reports their outcome.
// Returned errors are infrastructure failures; expected failures are reported through the outcome.
type Commands struct {
	repo     Repository
	hashCost int
}

// NewCommands creates a new account command executor hashing passwords using bcrypt's default cost
func NewCommands(repo Repository) *Commands {
	return &Commands{
		repo:     repo,
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost returns a copy of the command executor using the given bcrypt cost
func (commands *Commands) WithHashCost(cost int) *Commands {
	cpy := *commands
	cpy.hashCost = cost
	return &cpy
}

// Create creates a new account.
// The creation conflicts if the username or email is taken or if the requested tenant does not exist.
// ErrBlank is returned if the username or email is empty after trimming.
func (commands *Commands) Create(ctx context.Context, input *NewAccount) (outcome.CreateOutcome[*Account], error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" {
		return outcome.CreateOutcome[*Account]{}, ErrBlank
	}

	if input.Tenant != nil {
		tenant, err := commands.repo.GetByID(ctx, *input.Tenant)
		if err != nil {
			return outcome.CreateOutcome[*Account]{}, err
		}
		if tenant == nil {
			return outcome.CreateConflict[*Account](), nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), commands.hashCost)
	if err != nil {
		return outcome.CreateOutcome[*Account]{}, err
	}

	obj, err := commands.repo.Create(ctx, &Create{
		Username:     username,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Tenant:       input.Tenant,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrReference) {
			return outcome.CreateConflict[*Account](), nil
		}
		return outcome.CreateOutcome[*Account]{}, err
	}
	return outcome.Created(obj), nil
}

// Patch applies a JSON patch document to the public representation of an account.
// The patch conflicts if it cannot be applied or touches read-only fields. It also conflicts if the new tenant is
// unknown, is the account itself or is tenanted by it somewhere up its chain, and if the username or email is taken.
func (commands *Commands) Patch(ctx context.Context, cmd *PatchCommand) (outcome.ModifyOutcome, error) {
	obj, err := commands.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return outcome.ModifyNotFound, nil
	}
	if !mayManage(cmd.Actor, obj) {
		return outcome.ModifyUnauthorized, nil
	}

	original, err := json.Marshal(obj)
	if err != nil {
		return 0, err
	}
	patched, err := cmd.Document.Apply(original)
	if err != nil {
		return outcome.ModifyConflict, nil
	}
	target := new(Account)
	if err := json.Unmarshal(patched, target); err != nil {
		return outcome.ModifyConflict, nil
	}

	update, ok := diff(obj, target)
	if !ok {
		return outcome.ModifyConflict, nil
	}
	if update.IsEmpty() {
		return outcome.ModifyDone, nil
	}

	if update.Tenant != nil && update.Tenant.Valid {
		if update.Tenant.UUID == obj.ID {
			return outcome.ModifyConflict, nil
		}
		tenant, err := commands.repo.GetByID(ctx, update.Tenant.UUID)
		if err != nil {
			return 0, err
		}
		if tenant == nil {
			return outcome.ModifyConflict, nil
		}
		cyclic, err := commands.tenantChainContains(ctx, tenant, obj.ID)
		if err != nil {
			return 0, err
		}
		if cyclic {
			return outcome.ModifyConflict, nil
		}
	}

	if _, err := commands.repo.Update(ctx, obj.ID, update); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return outcome.ModifyNotFound, nil
		case errors.Is(err, ErrDuplicate), errors.Is(err, ErrReference):
			return outcome.ModifyConflict, nil
		default:
			return 0, err
		}
	}
	return outcome.ModifyDone, nil
}

// Delete deletes an account.
// Deleting an account other accounts use as their tenant conflicts.
func (commands *Commands) Delete(ctx context.Context, cmd *DeleteCommand) (outcome.DeleteOutcome, error) {
	obj, err := commands.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return outcome.DeleteNotFound, nil
	}
	if !mayManage(cmd.Actor, obj) {
		return outcome.DeleteUnauthorized, nil
	}

	n, err := commands.repo.CountTenanted(ctx, obj.ID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return outcome.DeleteConflict, nil
	}

	if err := commands.repo.Delete(ctx, obj.ID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return outcome.DeleteNotFound, nil
		case errors.Is(err, ErrReference):
			return outcome.DeleteConflict, nil
		default:
			return 0, err
		}
	}
	return outcome.DeleteDone, nil
}

// tenantChainContains walks up the tenant chain starting at (and including) from and reports whether id appears in it
func (commands *Commands) tenantChainContains(ctx context.Context, from *Account, id uuid.UUID) (bool, error) {
	visited := map[uuid.UUID]struct{}{}
	for cur := from; cur != nil; {
		if cur.ID == id {
			return true, nil
		}
		if _, ok := visited[cur.ID]; ok || cur.Tenant == nil {
			return false, nil
		}
		visited[cur.ID] = struct{}{}

		next, err := commands.repo.GetByID(ctx, *cur.Tenant)
		if err != nil {
			return false, err
		}
		cur = next
	}
	return false, nil
}

// mayManage reports whether actor may modify target: an unknown actor is not restricted, a known one has to be the
// account itself or its tenant
func mayManage(actor *uuid.UUID, target *Account) bool {
	if actor == nil {
		return true
	}
	return *actor == target.ID || (target.Tenant != nil && *target.Tenant == *actor)
}

// diff computes the update turning current into target.
// It fails if a read-only field was changed.
func diff(current, target *Account) (*Update, bool) {
	if target.ID != current.ID ||
		target.Active != current.Active ||
		!target.CreatedDate.Equal(current.CreatedDate) ||
		!target.UpdatedDate.Equal(current.UpdatedDate) {
		return nil, false
	}

	update := new(Update)
	if target.Username != current.Username {
		username := strings.TrimSpace(target.Username)
		if username == "" {
			return nil, false
		}
		update.Username = &username
	}
	if target.Name != current.Name {
		name := strings.TrimSpace(target.Name)
		update.Name = &name
	}
	if target.Email != current.Email {
		email := strings.TrimSpace(target.Email)
		if email == "" {
			return nil, false
		}
		update.Email = &email
	}
	if target.Locked != current.Locked {
		locked := target.Locked
		update.Locked = &locked
	}
	switch {
	case target.Tenant == nil && current.Tenant != nil:
		update.Tenant = &uuid.NullUUID{}
	case target.Tenant != nil && (current.Tenant == nil || *target.Tenant != *current.Tenant):
		update.Tenant = &uuid.NullUUID{UUID: *target.Tenant, Valid: true}
	}
	return update, true
}
