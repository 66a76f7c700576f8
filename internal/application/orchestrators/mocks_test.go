package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/academy"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/account"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

var fixedTime = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

var errMockNotFound = errors.New("not found")

// mockAccountStore implements the account store interfaces used by orchestrators.
type mockAccountStore struct {
	accounts map[string]account.Account
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return account.Account{}, errMockNotFound
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, errMockNotFound
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

// mockAcademyStore implements the academy store interfaces used by orchestrators.
type mockAcademyStore struct {
	academies map[string]academy.Academy
}

func newMockAcademyStore() *mockAcademyStore {
	return &mockAcademyStore{academies: make(map[string]academy.Academy)}
}

func (m *mockAcademyStore) GetByAbbreviation(_ context.Context, abbr string) (academy.Academy, error) {
	for _, a := range m.academies {
		if a.Abbreviation == abbr {
			return a, nil
		}
	}
	return academy.Academy{}, errMockNotFound
}

func (m *mockAcademyStore) GetByRepresentativeDNI(_ context.Context, dni string) (academy.Academy, error) {
	for _, a := range m.academies {
		if a.RepresentativeDNI == dni {
			return a, nil
		}
	}
	return academy.Academy{}, errMockNotFound
}

func (m *mockAcademyStore) Save(_ context.Context, a academy.Academy) error {
	m.academies[a.ID] = a
	return nil
}

// mockEventStore implements the event store interfaces used by orchestrators.
type mockEventStore struct {
	events  map[string]event.Event
	saveErr error
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{events: make(map[string]event.Event)}
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (event.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return event.Event{}, errMockNotFound
	}
	return e, nil
}

func (m *mockEventStore) Save(_ context.Context, e event.Event) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockEventStore) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

// mockEnrollmentStore implements the enrollment store interfaces used by orchestrators.
type mockEnrollmentStore struct {
	enrollments map[string]enrollment.Enrollment
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{enrollments: make(map[string]enrollment.Enrollment)}
}

func (m *mockEnrollmentStore) GetByID(_ context.Context, id string) (enrollment.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return enrollment.Enrollment{}, errMockNotFound
	}
	return e, nil
}

func (m *mockEnrollmentStore) ListByEvent(_ context.Context, eventID string) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	for _, e := range m.enrollments {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentStore) ListByAcademy(_ context.Context, academyID string) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	for _, e := range m.enrollments {
		if e.AcademyID == academyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentStore) Save(_ context.Context, e enrollment.Enrollment) error {
	m.enrollments[e.ID] = e
	return nil
}

func (m *mockEnrollmentStore) Delete(_ context.Context, id string) error {
	delete(m.enrollments, id)
	return nil
}

func (m *mockEnrollmentStore) DeleteByEvent(_ context.Context, eventID string) error {
	for id, e := range m.enrollments {
		if e.EventID == eventID {
			delete(m.enrollments, id)
		}
	}
	return nil
}

// countingInvalidator records InvalidateAll calls.
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateAll() { c.calls++ }

func validAthleteInput() AthleteInput {
	return AthleteInput{
		FirstName: "Maria",
		LastName:  "Quispe",
		DNI:       "12345678",
		BirthDate: "2012-03-15",
		WeightKG:  42.5,
		Belt:      "KUP-6",
		Sex:       enrollment.SexFemale,
		Modality:  "KYORUGI",
	}
}

func upcomingEvent(id string) event.Event {
	return event.Event{
		ID:                   id,
		Name:                 "Copa Nacional",
		Date:                 fixedTime.AddDate(0, 1, 0),
		RegistrationDeadline: fixedTime.AddDate(0, 0, 20),
		Venue:                "Coliseo Central",
		Modality:             event.ModalityKyorugi,
		CreatedBy:            "admin1",
		CreatedAt:            fixedTime.AddDate(0, -1, 0),
		UpdatedAt:            fixedTime.AddDate(0, -1, 0),
	}
}
