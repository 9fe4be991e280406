package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/club-tournaments/models"
)

// MemoryStore is a non-persistent Store for local development and tests.
// Transactions are serialised: RunInTx holds a store-wide lock and works on a
// private copy of the data that replaces the committed data only when fn and
// the commit hook succeed. Writes outside a transaction take the same lock,
// so they never interleave with one. Reads outside a transaction see
// committed data only.
type MemoryStore struct {
	state *memoryState
	tx    *memoryTx
}

type memoryState struct {
	txMu       sync.Mutex
	mu         sync.RWMutex
	data       *memoryData
	commitHook func() error
}

// memoryTx is the working copy of one transaction.
type memoryTx struct {
	mu   sync.RWMutex
	data *memoryData
}

// memoryView routes repository access to the transaction's working copy, or
// to the committed data when tx is nil.
type memoryView struct {
	st *memoryState
	tx *memoryTx
}

func (v memoryView) rlock() (*memoryData, func()) {
	if v.tx != nil {
		v.tx.mu.RLock()
		return v.tx.data, v.tx.mu.RUnlock
	}
	v.st.mu.RLock()
	return v.st.data, v.st.mu.RUnlock
}

// lock returns the data to modify. Outside a transaction the write is
// serialised with RunInTx, so it must not be called from inside fn with the
// outer store.
func (v memoryView) lock() (*memoryData, func()) {
	if v.tx != nil {
		v.tx.mu.Lock()
		return v.tx.data, v.tx.mu.Unlock
	}
	v.st.txMu.Lock()
	v.st.mu.Lock()
	return v.st.data, func() {
		v.st.mu.Unlock()
		v.st.txMu.Unlock()
	}
}

type memoryData struct {
	users        map[string]models.User
	clubs        map[string]models.Club
	memberships  map[string]models.Membership // key: clubID + "/" + userID
	teams        map[string]models.Team
	tournaments  map[string]models.Tournament
	participants map[string][]models.Participant // key: tournamentID, insertion order
	activities   []models.Activity
	applications []models.Application
	events       map[models.EventKind]map[string]models.Event
	chatRooms    []models.ChatRoom
}

func newMemoryData() *memoryData {
	return &memoryData{
		users:        make(map[string]models.User),
		clubs:        make(map[string]models.Club),
		memberships:  make(map[string]models.Membership),
		teams:        make(map[string]models.Team),
		tournaments:  make(map[string]models.Tournament),
		participants: make(map[string][]models.Participant),
		events: map[models.EventKind]map[string]models.Event{
			models.EventKindLeague:    {},
			models.EventKindLightning: {},
			models.EventKindEvent:     {},
		},
	}
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.clubs {
		c.clubs[k] = v
	}
	for k, v := range d.memberships {
		c.memberships[k] = v
	}
	for k, v := range d.teams {
		c.teams[k] = v
	}
	for k, v := range d.tournaments {
		c.tournaments[k] = v
	}
	for k, v := range d.participants {
		c.participants[k] = append([]models.Participant(nil), v...)
	}
	c.activities = append([]models.Activity(nil), d.activities...)
	c.applications = append([]models.Application(nil), d.applications...)
	for kind, byID := range d.events {
		for k, v := range byID {
			c.events[kind][k] = v
		}
	}
	for _, room := range d.chatRooms {
		room.MemberIDs = append([]string(nil), room.MemberIDs...)
		c.chatRooms = append(c.chatRooms, room)
	}
	return c
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memoryState{data: newMemoryData()}}
}

// SetCommitHook installs a function run at commit time; a non-nil error
// aborts the transaction and is returned by RunInTx unchanged.
func (s *MemoryStore) SetCommitHook(hook func() error) {
	s.state.txMu.Lock()
	defer s.state.txMu.Unlock()
	s.state.commitHook = hook
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	s.state.txMu.Lock()
	defer s.state.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.state.mu.RLock()
	work := &memoryTx{data: s.state.data.clone()}
	s.state.mu.RUnlock()

	if err := fn(&MemoryStore{state: s.state, tx: work}); err != nil {
		return err
	}
	if s.state.commitHook != nil {
		if err := s.state.commitHook(); err != nil {
			return err
		}
	}

	s.state.mu.Lock()
	s.state.data = work.data
	s.state.mu.Unlock()
	return nil
}

func (s *MemoryStore) view() memoryView { return memoryView{st: s.state, tx: s.tx} }

func (s *MemoryStore) Users() UserRepository               { return memoryUsers{s.view()} }
func (s *MemoryStore) Clubs() ClubRepository               { return memoryClubs{s.view()} }
func (s *MemoryStore) Teams() TeamRepository               { return memoryTeams{s.view()} }
func (s *MemoryStore) Tournaments() TournamentRepository   { return memoryTournaments{s.view()} }
func (s *MemoryStore) Participants() ParticipantRepository { return memoryParticipants{s.view()} }
func (s *MemoryStore) Activities() ActivityRepository      { return memoryActivities{s.view()} }
func (s *MemoryStore) Applications() ApplicationRepository { return memoryApplications{s.view()} }
func (s *MemoryStore) Events() EventRepository             { return memoryEvents{s.view()} }
func (s *MemoryStore) ChatRooms() ChatRoomRepository       { return memoryChatRooms{s.view()} }

// --- users ---

type memoryUsers struct{ memoryView }

func (r memoryUsers) Create(_ context.Context, u *models.User) error {
	d, unlock := r.lock()
	defer unlock()
	for _, existing := range d.users {
		if existing.Email == u.Email {
			return ErrUserEmailConflict
		}
	}
	d.users[u.ID] = *u
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	d, unlock := r.rlock()
	defer unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	d, unlock := r.rlock()
	defer unlock()
	for _, u := range d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// --- clubs ---

type memoryClubs struct{ memoryView }

func membershipKey(clubID, userID string) string { return clubID + "/" + userID }

func (r memoryClubs) Create(_ context.Context, c *models.Club) error {
	d, unlock := r.lock()
	defer unlock()
	d.clubs[c.ID] = *c
	return nil
}

func (r memoryClubs) GetByID(_ context.Context, id string) (*models.Club, error) {
	d, unlock := r.rlock()
	defer unlock()
	c, ok := d.clubs[id]
	if !ok {
		return nil, ErrClubNotFound
	}
	return &c, nil
}

func (r memoryClubs) UpsertMembership(_ context.Context, m *models.Membership) error {
	d, unlock := r.lock()
	defer unlock()
	if _, ok := d.clubs[m.ClubID]; !ok {
		return ErrClubNotFound
	}
	key := membershipKey(m.ClubID, m.UserID)
	if existing, ok := d.memberships[key]; ok {
		existing.Role = m.Role
		d.memberships[key] = existing
		return nil
	}
	d.memberships[key] = *m
	return nil
}

func (r memoryClubs) GetMembership(_ context.Context, clubID, userID string) (*models.Membership, error) {
	d, unlock := r.rlock()
	defer unlock()
	m, ok := d.memberships[membershipKey(clubID, userID)]
	if !ok {
		return nil, ErrMembershipNotFound
	}
	return &m, nil
}

// --- teams ---

type memoryTeams struct{ memoryView }

func (r memoryTeams) Create(_ context.Context, t *models.Team) error {
	d, unlock := r.lock()
	defer unlock()
	d.teams[t.ID] = *t
	return nil
}

func (r memoryTeams) GetByID(_ context.Context, id string) (*models.Team, error) {
	d, unlock := r.rlock()
	defer unlock()
	t, ok := d.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return &t, nil
}

// --- tournaments ---

type memoryTournaments struct{ memoryView }

func (r memoryTournaments) Create(_ context.Context, t *models.Tournament) error {
	d, unlock := r.lock()
	defer unlock()
	d.tournaments[t.ID] = *t
	return nil
}

func (r memoryTournaments) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	d, unlock := r.rlock()
	defer unlock()
	t, ok := d.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return &t, nil
}

func (r memoryTournaments) GetByIDForUpdate(ctx context.Context, id string) (*models.Tournament, error) {
	return r.GetByID(ctx, id)
}

func (r memoryTournaments) List(_ context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	d, unlock := r.rlock()
	defer unlock()

	result := make([]models.Tournament, 0)
	for _, t := range d.tournaments {
		if filter.ClubID != nil && t.ClubID != *filter.ClubID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.After(result[j].StartDate)
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if filter.Offset >= len(result) {
		return []models.Tournament{}, nil
	}
	if filter.Offset > 0 {
		result = result[filter.Offset:]
	}
	if limit := normalizeLimit(filter.Limit, 20, 100); len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r memoryTournaments) UpdateStatus(_ context.Context, t *models.Tournament) error {
	d, unlock := r.lock()
	defer unlock()
	stored, ok := d.tournaments[t.ID]
	if !ok {
		return ErrTournamentNotFound
	}
	stored.Status = t.Status
	stored.CompletedAt = t.CompletedAt
	stored.CancelledAt = t.CancelledAt
	stored.CancellationReason = t.CancellationReason
	stored.CancelledBy = t.CancelledBy
	stored.UpdatedAt = t.UpdatedAt
	d.tournaments[t.ID] = stored
	return nil
}

func (r memoryTournaments) IncrementParticipantCount(_ context.Context, id string, delta int) error {
	d, unlock := r.lock()
	defer unlock()
	stored, ok := d.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	stored.ParticipantCount += delta
	stored.UpdatedAt = time.Now().UTC()
	d.tournaments[id] = stored
	return nil
}

func (r memoryTournaments) UpdateLogoKey(_ context.Context, id string, logoKey *string) error {
	d, unlock := r.lock()
	defer unlock()
	stored, ok := d.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	stored.LogoKey = logoKey
	stored.UpdatedAt = time.Now().UTC()
	d.tournaments[id] = stored
	return nil
}

func (r memoryTournaments) ListRegistrationPastDeadline(_ context.Context, now time.Time) ([]models.Tournament, error) {
	d, unlock := r.rlock()
	defer unlock()
	result := make([]models.Tournament, 0)
	for _, t := range d.tournaments {
		if t.Status == models.StatusRegistration && !t.RegistrationDeadline.After(now) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RegistrationDeadline.Before(result[j].RegistrationDeadline)
	})
	return result, nil
}

// --- participants ---

type memoryParticipants struct{ memoryView }

func (r memoryParticipants) Create(_ context.Context, p *models.Participant) error {
	d, unlock := r.lock()
	defer unlock()
	if _, ok := d.tournaments[p.TournamentID]; !ok {
		return ErrTournamentNotFound
	}
	for _, existing := range d.participants[p.TournamentID] {
		if existing.PlayerID == p.PlayerID {
			return ErrParticipantConflict
		}
	}
	d.participants[p.TournamentID] = append(d.participants[p.TournamentID], *p)
	return nil
}

func (r memoryParticipants) FindByMember(_ context.Context, tournamentID, userID string) (*models.Participant, error) {
	d, unlock := r.rlock()
	defer unlock()
	for _, p := range d.participants[tournamentID] {
		if p.HasMember(userID) {
			return &p, nil
		}
	}
	return nil, ErrParticipantNotFound
}

func (r memoryParticipants) FindByPlayerID(_ context.Context, tournamentID, playerID string) (*models.Participant, error) {
	d, unlock := r.rlock()
	defer unlock()
	for _, p := range d.participants[tournamentID] {
		if p.PlayerID == playerID {
			return &p, nil
		}
	}
	return nil, ErrParticipantNotFound
}

func (r memoryParticipants) ListByTournament(_ context.Context, tournamentID string) ([]models.Participant, error) {
	d, unlock := r.rlock()
	defer unlock()
	return append(make([]models.Participant, 0), d.participants[tournamentID]...), nil
}

func (r memoryParticipants) CountByTournament(_ context.Context, tournamentID string) (int, error) {
	d, unlock := r.rlock()
	defer unlock()
	return len(d.participants[tournamentID]), nil
}

// --- activities ---

type memoryActivities struct{ memoryView }

func (r memoryActivities) Create(_ context.Context, a *models.Activity) error {
	d, unlock := r.lock()
	defer unlock()
	d.activities = append(d.activities, *a)
	return nil
}

// ListByTournament returns the newest activities first.
func (r memoryActivities) ListByTournament(_ context.Context, tournamentID string, limit int) ([]models.Activity, error) {
	d, unlock := r.rlock()
	defer unlock()
	limit = normalizeLimit(limit, 50, 200)
	result := make([]models.Activity, 0)
	for i := len(d.activities) - 1; i >= 0 && len(result) < limit; i-- {
		a := d.activities[i]
		if a.TournamentID != nil && *a.TournamentID == tournamentID {
			result = append(result, a)
		}
	}
	return result, nil
}

// --- applications ---

type memoryApplications struct{ memoryView }

func (r memoryApplications) Create(_ context.Context, a *models.Application) error {
	d, unlock := r.lock()
	defer unlock()
	d.applications = append(d.applications, *a)
	return nil
}

func (r memoryApplications) GetByID(_ context.Context, id string) (*models.Application, error) {
	d, unlock := r.rlock()
	defer unlock()
	for _, a := range d.applications {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrApplicationNotFound
}

func (r memoryApplications) FindActiveByApplicant(_ context.Context, eventID, applicantID string) (*models.Application, error) {
	d, unlock := r.rlock()
	defer unlock()
	for i := len(d.applications) - 1; i >= 0; i-- {
		a := d.applications[i]
		if a.EventID == eventID && a.ApplicantID == applicantID && a.Status != models.ApplicationRejected {
			return &a, nil
		}
	}
	return nil, ErrApplicationNotFound
}

func (r memoryApplications) ListByEvent(_ context.Context, eventID string) ([]models.Application, error) {
	d, unlock := r.rlock()
	defer unlock()
	result := make([]models.Application, 0)
	for _, a := range d.applications {
		if a.EventID == eventID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r memoryApplications) ListByEventForUpdate(ctx context.Context, eventID string) ([]models.Application, error) {
	return r.ListByEvent(ctx, eventID)
}

func (r memoryApplications) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus, at time.Time) error {
	d, unlock := r.lock()
	defer unlock()
	for i, a := range d.applications {
		if a.ID != id {
			continue
		}
		a.Status = status
		a.UpdatedAt = at
		if status == models.ApplicationApproved {
			approvedAt := at
			a.ApprovedAt = &approvedAt
		}
		d.applications[i] = a
		return nil
	}
	return ErrApplicationNotFound
}

// --- events ---

type memoryEvents struct{ memoryView }

func (r memoryEvents) Create(_ context.Context, e *models.Event) error {
	d, unlock := r.lock()
	defer unlock()
	byID, ok := d.events[e.Kind]
	if !ok {
		return ErrEventKindNotWritable
	}
	byID[e.ID] = *e
	return nil
}

func (r memoryEvents) FindByID(_ context.Context, kind models.EventKind, id string) (*models.Event, error) {
	d, unlock := r.rlock()
	defer unlock()
	if kind == models.EventKindTournament {
		t, ok := d.tournaments[id]
		if !ok {
			return nil, ErrEventNotFound
		}
		return &models.Event{
			ID:              t.ID,
			Kind:            models.EventKindTournament,
			HostID:          t.CreatedBy,
			Title:           t.Title,
			MaxParticipants: t.Settings.MaxParticipants,
		}, nil
	}
	e, ok := d.events[kind][id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return &e, nil
}

// --- chat rooms ---

type memoryChatRooms struct{ memoryView }

func (r memoryChatRooms) Create(_ context.Context, room *models.ChatRoom) error {
	d, unlock := r.lock()
	defer unlock()
	stored := *room
	stored.MemberIDs = append([]string(nil), room.MemberIDs...)
	d.chatRooms = append(d.chatRooms, stored)
	return nil
}

func (r memoryChatRooms) FindDirectRoom(_ context.Context, userA, userB string) (*models.ChatRoom, error) {
	d, unlock := r.rlock()
	defer unlock()
	for _, room := range d.chatRooms {
		if room.Type == models.ChatRoomDirect && room.HasMember(userA) && room.HasMember(userB) {
			room.MemberIDs = append([]string(nil), room.MemberIDs...)
			return &room, nil
		}
	}
	return nil, ErrChatRoomNotFound
}

func (r memoryChatRooms) AddMember(_ context.Context, roomID, userID string) error {
	d, unlock := r.lock()
	defer unlock()
	for i, room := range d.chatRooms {
		if room.ID != roomID {
			continue
		}
		if !room.HasMember(userID) {
			room.MemberIDs = append(append([]string(nil), room.MemberIDs...), userID)
			d.chatRooms[i] = room
		}
		return nil
	}
	return ErrChatRoomNotFound
}
