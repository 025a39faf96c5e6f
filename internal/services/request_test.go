package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

// --- фейковые репозитории поверх карт в памяти ---
//
// fakeTxManager перед вызовом fn снимает снимки всех хранилищ и при ошибке
// возвращает их назад: это даёт честную проверку атомарности без БД.

type fakeRequestRepo struct {
	nextID uint64
	items  map[uint64]entities.MaintenanceRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{nextID: 1, items: make(map[uint64]entities.MaintenanceRequest)}
}

func (r *fakeRequestRepo) snapshot() map[uint64]entities.MaintenanceRequest {
	snap := make(map[uint64]entities.MaintenanceRequest, len(r.items))
	for id, item := range r.items {
		snap[id] = item
	}
	return snap
}

func (r *fakeRequestRepo) restore(snap map[uint64]entities.MaintenanceRequest) { r.items = snap }

func (r *fakeRequestRepo) GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	var result []entities.MaintenanceRequest
	for _, item := range r.items {
		if teamID, ok := filter.Filter["team_id"]; ok {
			if v, ok := teamID.(uint64); ok && item.TeamID != v {
				continue
			}
		}
		result = append(result, item)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeRequestRepo) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (r *fakeRequestRepo) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	return r.FindRequest(ctx, id)
}

func (r *fakeRequestRepo) CreateRequestInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error) {
	id := r.nextID
	r.nextID++
	stored := *request
	stored.ID = id
	r.items[id] = stored
	return id, nil
}

func (r *fakeRequestRepo) AssignInTx(ctx context.Context, tx pgx.Tx, id uint64, technicianID uint64, status constants.RequestStatus) error {
	item, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	item.AssignedTo = &technicianID
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *fakeRequestRepo) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus) error {
	item, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *fakeRequestRepo) CompleteInTx(ctx context.Context, tx pgx.Tx, id uint64, durationHours float64) error {
	item, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	item.Status = constants.StatusRepaired
	item.DurationHours = &durationHours
	r.items[id] = item
	return nil
}

func (r *fakeRequestRepo) CountByAssignee(ctx context.Context, userID uint64) (uint64, error) {
	var count uint64
	for _, item := range r.items {
		if item.AssignedTo != nil && *item.AssignedTo == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequestRepo) CountByTeamID(ctx context.Context, teamID uint64) (uint64, error) {
	var count uint64
	for _, item := range r.items {
		if item.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

type fakeEquipmentRepo struct {
	items map[uint64]entities.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: make(map[uint64]entities.Equipment)}
}

func (r *fakeEquipmentRepo) snapshot() map[uint64]entities.Equipment {
	snap := make(map[uint64]entities.Equipment, len(r.items))
	for id, item := range r.items {
		snap[id] = item
	}
	return snap
}

func (r *fakeEquipmentRepo) restore(snap map[uint64]entities.Equipment) { r.items = snap }

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	var result []entities.Equipment
	for _, item := range r.items {
		result = append(result, item)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (r *fakeEquipmentRepo) FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.FindEquipment(ctx, id)
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	r.items[equipment.ID] = *equipment
	return equipment.ID, nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error {
	r.items[equipment.ID] = *equipment
	return nil
}

func (r *fakeEquipmentRepo) MarkScrapped(ctx context.Context, id uint64) error {
	return r.MarkScrappedInTx(ctx, nil, id)
}

func (r *fakeEquipmentRepo) MarkScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	item, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	item.IsScrapped = true
	r.items[id] = item
	return nil
}

func (r *fakeEquipmentRepo) CountByTeamID(ctx context.Context, teamID uint64) (uint64, error) {
	var count uint64
	for _, item := range r.items {
		if item.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	items map[uint64]entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: make(map[uint64]entities.User)}
}

func (r *fakeUserRepo) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	var result []entities.User
	for _, item := range r.items {
		result = append(result, item)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, item := range r.items {
		if item.Email == email {
			found := item
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	r.items[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *entities.User) error {
	r.items[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id uint64) error {
	delete(r.items, id)
	return nil
}

func (r *fakeUserRepo) CountByTeamID(ctx context.Context, teamID uint64) (uint64, error) {
	var count uint64
	for _, item := range r.items {
		if item.TeamID != nil && *item.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

type fakeRequestLogRepo struct {
	entries []entities.RequestLog
	// failNext: следующий AppendLogInTx вернёт эту ошибку (проверка отката).
	failNext error
}

func newFakeRequestLogRepo() *fakeRequestLogRepo { return &fakeRequestLogRepo{} }

func (r *fakeRequestLogRepo) snapshot() []entities.RequestLog {
	return append([]entities.RequestLog(nil), r.entries...)
}

func (r *fakeRequestLogRepo) restore(snap []entities.RequestLog) { r.entries = snap }

func (r *fakeRequestLogRepo) AppendLogInTx(ctx context.Context, tx pgx.Tx, log *entities.RequestLog) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	stored := *log
	stored.ID = uint64(len(r.entries) + 1)
	stored.ChangedAt = time.Now()
	r.entries = append(r.entries, stored)
	return nil
}

func (r *fakeRequestLogRepo) FindByRequestID(ctx context.Context, requestID uint64, limit, offset uint64) ([]entities.RequestLog, error) {
	var result []entities.RequestLog
	for _, entry := range r.entries {
		if entry.RequestID == requestID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeRequestLogRepo) CountByRequestID(ctx context.Context, requestID uint64) (uint64, error) {
	entries, _ := r.FindByRequestID(ctx, requestID, 0, 0)
	return uint64(len(entries)), nil
}

type fakeTxManager struct {
	requests  *fakeRequestRepo
	equipment *fakeEquipmentRepo
	logs      *fakeRequestLogRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	requestsSnap := m.requests.snapshot()
	equipmentSnap := m.equipment.snapshot()
	logsSnap := m.logs.snapshot()

	if err := fn(nil); err != nil {
		m.requests.restore(requestsSnap)
		m.equipment.restore(equipmentSnap)
		m.logs.restore(logsSnap)
		return err
	}
	return nil
}

// --- окружение теста ---

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type requestServiceEnv struct {
	svc       *RequestService
	requests  *fakeRequestRepo
	equipment *fakeEquipmentRepo
	users     *fakeUserRepo
	logs      *fakeRequestLogRepo
}

func newRequestServiceEnv(t *testing.T) *requestServiceEnv {
	t.Helper()

	env := &requestServiceEnv{
		requests:  newFakeRequestRepo(),
		equipment: newFakeEquipmentRepo(),
		users:     newFakeUserRepo(),
		logs:      newFakeRequestLogRepo(),
	}
	txm := &fakeTxManager{requests: env.requests, equipment: env.equipment, logs: env.logs}

	svc, ok := NewRequestService(txm, env.requests, env.equipment, env.users, env.logs, zap.NewNop()).(*RequestService)
	require.True(t, ok)
	svc.now = func() time.Time { return testNow }
	env.svc = svc

	// базовые данные: две команды, менеджер и техник в 10-й, техник в 20-й
	team10, team20 := uint64(10), uint64(20)
	env.users.items[1] = entities.User{ID: 1, Fio: "Админ", Email: "admin@test", Role: constants.RoleAdmin}
	env.users.items[2] = entities.User{ID: 2, Fio: "Менеджер", Email: "manager@test", Role: constants.RoleManager, TeamID: &team10}
	env.users.items[3] = entities.User{ID: 3, Fio: "Техник", Email: "tech@test", Role: constants.RoleTechnician, TeamID: &team10}
	env.users.items[4] = entities.User{ID: 4, Fio: "Чужой техник", Email: "tech2@test", Role: constants.RoleTechnician, TeamID: &team20}

	env.equipment.items[100] = entities.Equipment{ID: 100, Name: "Станок", SerialNumber: "SN-100", TeamID: team10}
	env.equipment.items[101] = entities.Equipment{ID: 101, Name: "Списанный пресс", SerialNumber: "SN-101", TeamID: team10, IsScrapped: true}
	env.equipment.items[200] = entities.Equipment{ID: 200, Name: "Компрессор", SerialNumber: "SN-200", TeamID: team20}

	return env
}

func (env *requestServiceEnv) actor(userID uint64) *authz.Actor {
	user := env.users.items[userID]
	return authz.ActorFromUser(&user)
}

func (env *requestServiceEnv) createCorrective(t *testing.T, actorID, equipmentID uint64) *dto.RequestDTO {
	t.Helper()
	created, err := env.svc.CreateRequest(context.Background(), env.actor(actorID), dto.CreateRequestDTO{
		Subject:     "Сломался привод",
		Type:        constants.TypeCorrective.String(),
		EquipmentID: equipmentID,
	})
	require.NoError(t, err)
	return created
}

// --- тесты ---

func TestRequestService_CorrectiveLifecycle(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()

	// менеджер создаёт заявку
	created := env.createCorrective(t, 2, 100)
	assert.Equal(t, constants.StatusNew.String(), created.Status)
	assert.Equal(t, uint64(10), created.TeamID, "команда заявки наследуется от оборудования")

	// менеджер назначает техника своей команды
	assigned, err := env.svc.AssignRequest(ctx, env.actor(2), created.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress.String(), assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, uint64(3), *assigned.AssignedTo)

	// техник завершает работы
	completed, err := env.svc.CompleteRequest(ctx, env.actor(3), created.ID, 2.5)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusRepaired.String(), completed.Status)
	require.NotNil(t, completed.DurationHours)
	assert.Equal(t, 2.5, *completed.DurationHours)

	// журнал: ровно одна строка на каждый переход, в порядке жизненного цикла
	entries, err := env.logs.FindByRequestID(ctx, created.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Nil(t, entries[0].OldStatus, "у стартовой записи нет исходного статуса")
	assert.Equal(t, constants.StatusNew, entries[0].NewStatus)
	assert.Equal(t, uint64(2), entries[0].ChangedBy)

	require.NotNil(t, entries[1].OldStatus)
	assert.Equal(t, constants.StatusNew, *entries[1].OldStatus)
	assert.Equal(t, constants.StatusInProgress, entries[1].NewStatus)

	require.NotNil(t, entries[2].OldStatus)
	assert.Equal(t, constants.StatusInProgress, *entries[2].OldStatus)
	assert.Equal(t, constants.StatusRepaired, entries[2].NewStatus)
	assert.Equal(t, uint64(3), entries[2].ChangedBy)

	// каждая запись сделана своей единицей работы
	assert.NotEqual(t, entries[0].TxID, entries[1].TxID)
}

func TestRequestService_CreateDeniedForTechnician(t *testing.T) {
	env := newRequestServiceEnv(t)

	_, err := env.svc.CreateRequest(context.Background(), env.actor(3), dto.CreateRequestDTO{
		Subject:     "Попытка техника",
		Type:        constants.TypeCorrective.String(),
		EquipmentID: 100,
	})

	var denied *apperrors.PermissionDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, apperrors.DenyWrongRole, denied.Reason)
}

func TestRequestService_CreateOnScrappedEquipment(t *testing.T) {
	env := newRequestServiceEnv(t)

	_, err := env.svc.CreateRequest(context.Background(), env.actor(2), dto.CreateRequestDTO{
		Subject:     "На списанном",
		Type:        constants.TypeCorrective.String(),
		EquipmentID: 101,
	})

	var scrapped *apperrors.EquipmentScrappedError
	require.True(t, errors.As(err, &scrapped))
	assert.Equal(t, uint64(101), scrapped.EquipmentID)

	entries, _ := env.logs.FindByRequestID(context.Background(), 1, 0, 0)
	assert.Empty(t, entries, "неудачное создание не оставляет следов в журнале")
}

func TestRequestService_PreventiveScheduleBounds(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()

	create := func(scheduled *time.Time) error {
		data := dto.CreateRequestDTO{
			Subject:     "Плановое ТО",
			Type:        constants.TypePreventive.String(),
			EquipmentID: 100,
		}
		if scheduled != nil {
			data.ScheduledDate = null.TimeFrom(*scheduled)
		}
		_, err := env.svc.CreateRequest(ctx, env.actor(2), data)
		return err
	}

	var validationErr *apperrors.ValidationError

	// без даты — отказ
	require.True(t, errors.As(create(nil), &validationErr))

	// в прошлом — отказ
	past := testNow.AddDate(0, 0, -1)
	require.True(t, errors.As(create(&past), &validationErr))

	// ровно на горизонте двух лет — допустимо
	horizon := testNow.AddDate(2, 0, 0)
	require.NoError(t, create(&horizon))

	// за горизонтом — отказ
	beyond := testNow.AddDate(2, 0, 1)
	require.True(t, errors.As(create(&beyond), &validationErr))

	// сегодня — допустимо
	today := testNow
	require.NoError(t, create(&today))
}

func TestRequestService_CorrectiveFutureDateRejected(t *testing.T) {
	env := newRequestServiceEnv(t)

	future := testNow.AddDate(0, 0, 7)
	_, err := env.svc.CreateRequest(context.Background(), env.actor(2), dto.CreateRequestDTO{
		Subject:       "Поломка из будущего",
		Type:          constants.TypeCorrective.String(),
		EquipmentID:   100,
		ScheduledDate: null.TimeFrom(future),
	})

	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestRequestService_AssignTeamMismatch(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	// техник из чужой команды — отказ даже для админа
	for _, actorID := range []uint64{1, 2} {
		_, err := env.svc.AssignRequest(ctx, env.actor(actorID), created.ID, 4)
		var mismatch *apperrors.TeamMismatchError
		require.True(t, errors.As(err, &mismatch), "актор %d", actorID)
		assert.Equal(t, uint64(10), mismatch.RequestTeamID)
	}

	// назначить можно только техника
	_, err := env.svc.AssignRequest(ctx, env.actor(2), created.ID, 2)
	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestRequestService_ReassignInProgress(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	_, err := env.svc.AssignRequest(ctx, env.actor(2), created.ID, 3)
	require.NoError(t, err)

	// второй техник той же команды
	team10 := uint64(10)
	env.users.items[5] = entities.User{ID: 5, Fio: "Сменщик", Email: "tech3@test", Role: constants.RoleTechnician, TeamID: &team10}

	reassigned, err := env.svc.AssignRequest(ctx, env.actor(2), created.ID, 5)
	require.NoError(t, err, "переназначение из IN_PROGRESS допустимо")
	require.NotNil(t, reassigned.AssignedTo)
	assert.Equal(t, uint64(5), *reassigned.AssignedTo)
}

func TestRequestService_AssignFromTerminalStatus(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	_, err := env.svc.AssignRequest(ctx, env.actor(2), created.ID, 3)
	require.NoError(t, err)
	_, err = env.svc.CompleteRequest(ctx, env.actor(3), created.ID, 1)
	require.NoError(t, err)

	_, err = env.svc.AssignRequest(ctx, env.actor(2), created.ID, 3)
	var transitionErr *apperrors.InvalidStatusTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, constants.StatusRepaired, transitionErr.From)
	assert.Equal(t, constants.StatusInProgress, transitionErr.To)
}

func TestRequestService_UpdateStatusInvalidTransition(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	// NEW -> REPAIRED минует IN_PROGRESS
	_, err := env.svc.UpdateRequestStatus(ctx, env.actor(1), created.ID, constants.StatusRepaired.String())
	var transitionErr *apperrors.InvalidStatusTransitionError
	require.True(t, errors.As(err, &transitionErr))

	// неизвестный статус
	_, err = env.svc.UpdateRequestStatus(ctx, env.actor(1), created.ID, "BROKEN")
	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestRequestService_ScrapCascadesToEquipment(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	// NEW -> SCRAP разрешён и тянет за собой списание оборудования
	scrappedDTO, err := env.svc.ScrapRequest(ctx, env.actor(2), created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusScrap.String(), scrappedDTO.Status)

	equipment, err := env.equipment.FindEquipment(ctx, 100)
	require.NoError(t, err)
	assert.True(t, equipment.IsScrapped)

	// повторное списание терминальной заявки — отказ по таблице переходов
	_, err = env.svc.ScrapRequest(ctx, env.actor(2), created.ID)
	var transitionErr *apperrors.InvalidStatusTransitionError
	require.True(t, errors.As(err, &transitionErr))
}

func TestRequestService_UpdateStatusToScrapCascades(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	_, err := env.svc.UpdateRequestStatus(ctx, env.actor(1), created.ID, constants.StatusScrap.String())
	require.NoError(t, err)

	equipment, err := env.equipment.FindEquipment(ctx, 100)
	require.NoError(t, err)
	assert.True(t, equipment.IsScrapped)
}

func TestRequestService_ScrapWhenEquipmentAlreadyScrapped(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	// оборудование списали в обход заявки
	require.NoError(t, env.equipment.MarkScrapped(ctx, 100))

	// списание заявки проходит: каскад по оборудованию идемпотентен
	_, err := env.svc.ScrapRequest(ctx, env.actor(2), created.ID)
	require.NoError(t, err)
}

func TestRequestService_TechnicianCannotStartOwnRequest(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)
	_, err := env.svc.AssignRequest(ctx, env.actor(2), created.ID, 3)
	require.NoError(t, err)

	// техник не может перевести чужую заявку
	otherCreated := env.createCorrective(t, 2, 100)
	_, err = env.svc.UpdateRequestStatus(ctx, env.actor(3), otherCreated.ID, constants.StatusScrap.String())
	var denied *apperrors.PermissionDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, apperrors.DenyWrongAssignee, denied.Reason)
}

func TestRequestService_CompleteValidation(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	// нулевая длительность
	_, err := env.svc.CompleteRequest(ctx, env.actor(2), created.ID, 0)
	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))

	// завершить можно только из IN_PROGRESS
	_, err = env.svc.CompleteRequest(ctx, env.actor(2), created.ID, 1)
	var transitionErr *apperrors.InvalidStatusTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, constants.StatusNew, transitionErr.From)
	assert.Equal(t, constants.StatusRepaired, transitionErr.To)
}

// Атомарность: если строка журнала не записалась, откатывается вся операция.
func TestRequestService_RollbackOnLogFailure(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	env.logs.failNext = errors.New("журнал недоступен")

	_, err := env.svc.ScrapRequest(ctx, env.actor(2), created.ID)
	require.Error(t, err)

	// заявка не изменилась
	request, err := env.requests.FindRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusNew, request.Status)

	// оборудование не списано
	equipment, err := env.equipment.FindEquipment(ctx, 100)
	require.NoError(t, err)
	assert.False(t, equipment.IsScrapped)

	// журнал пуст, кроме стартовой записи
	entries, _ := env.logs.FindByRequestID(ctx, created.ID, 0, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, constants.StatusNew, entries[0].NewStatus)
}

func TestRequestService_FindRequestCrossTeamDenied(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()
	created := env.createCorrective(t, 2, 100)

	// менеджер чужой команды
	team20 := uint64(20)
	env.users.items[6] = entities.User{ID: 6, Fio: "Чужой менеджер", Email: "manager2@test", Role: constants.RoleManager, TeamID: &team20}

	_, err := env.svc.FindRequest(ctx, env.actor(6), created.ID)
	var denied *apperrors.PermissionDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, apperrors.DenyWrongTeam, denied.Reason)

	// админ видит всё
	found, err := env.svc.FindRequest(ctx, env.actor(1), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestRequestService_GetRequestsTeamScoping(t *testing.T) {
	env := newRequestServiceEnv(t)
	ctx := context.Background()

	// по одной заявке в каждой команде
	env.createCorrective(t, 2, 100)
	team20Req, err := env.svc.CreateRequest(ctx, env.actor(1), dto.CreateRequestDTO{
		Subject:     "Чужая заявка",
		Type:        constants.TypeCorrective.String(),
		EquipmentID: 200,
	})
	require.NoError(t, err)

	// менеджер без фильтра видит только свою команду
	list, total, err := env.svc.GetRequests(ctx, env.actor(2), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(10), list[0].TeamID)

	// явный запрос чужой команды — отказ, а не подмена фильтра
	_, _, err = env.svc.GetRequests(ctx, env.actor(2), types.Filter{
		Filter: map[string]interface{}{"team_id": uint64(20)},
	})
	var denied *apperrors.PermissionDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, apperrors.DenyWrongTeam, denied.Reason)

	// админ видит обе
	_, total, err = env.svc.GetRequests(ctx, env.actor(1), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	_ = team20Req
}

func TestRequestService_GetRequestsWithoutActor(t *testing.T) {
	env := newRequestServiceEnv(t)

	_, _, err := env.svc.GetRequests(context.Background(), nil, types.Filter{})
	var denied *apperrors.PermissionDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, apperrors.DenyMissingActor, denied.Reason)
}
