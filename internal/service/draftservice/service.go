package draftservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/metrics"
	"posconsole/internal/search"
	"posconsole/internal/transaction"
)

// CatalogRepository define o que o serviço espera do repositório de catálogo.
type CatalogRepository interface {
	search.Fetcher
	ListPointsOfSale(ctx context.Context) ([]domain.PointOfSale, error)
}

// TransactionRepository define o envio de transações em lote.
type TransactionRepository interface {
	SubmitBulk(ctx context.Context, req domain.BulkTransactionRequest, idempotencyKey string) (domain.BulkTransactionResponse, error)
}

// Journal registra as tentativas de envio. Opcional.
type Journal interface {
	Begin(ctx context.Context, entry domain.SubmissionEntry) (domain.SubmissionEntry, error)
	Complete(ctx context.Context, id string, status domain.SubmissionStatus, groupID string, errorMessage string) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.SubmissionEntry, error)
}

// ReferenceInvalidator descarta coleções de referência em cache após uma submissão. Opcional.
type ReferenceInvalidator interface {
	Invalidate(ctx context.Context)
}

// Options agrupa as dependências opcionais do serviço.
type Options struct {
	Search      search.Options
	Journal     Journal
	Invalidator ReferenceInvalidator
	Metrics     *metrics.Metrics
}

// DraftPatch são as alterações de campo aceitas por Update. Campos nil não mudam.
type DraftPatch struct {
	TransactionType          *domain.TransactionType `json:"transactionType,omitempty" validate:"omitempty,oneof=sale restock adjustment transfer"`
	PointOfSaleID            *int64                  `json:"pointOfSaleId,omitempty" validate:"omitempty,min=0"`
	DestinationPointOfSaleID *int64                  `json:"destinationPointOfSaleId,omitempty" validate:"omitempty,min=0"`
	PaymentMethod            *domain.PaymentMethod   `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash card qr"`
	Discount                 *decimal.Decimal        `json:"discount,omitempty" swaggertype:"string"`
	Remarks                  *string                 `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// Validate checa os valores que os mutadores do rascunho recusariam.
func (p DraftPatch) Validate() error {
	fields := map[string]string{}
	if p.TransactionType != nil && !p.TransactionType.Valid() {
		fields[transaction.FieldTransactionType] = "Tipo de transacción no válido."
	}
	if p.PaymentMethod != nil && *p.PaymentMethod != "" && !p.PaymentMethod.Valid() {
		fields[transaction.FieldPaymentMethod] = "Método de pago no válido."
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidationError("El borrador tiene campos inválidos.", fields)
	}
	return nil
}

// AddItemRequest seleciona um candidato dos resultados da busca (CandidateID) ou
// informa o candidato completo. Quantity nil usa a quantidade padrão do tipo.
type AddItemRequest struct {
	CandidateID *int64                `json:"candidateId,omitempty" validate:"required_without=Candidate"`
	Candidate   *domain.CandidateItem `json:"candidate,omitempty" validate:"required_without=CandidateID"`
	Quantity    *int                  `json:"quantity,omitempty"`
}

// DraftView é a representação de um rascunho devolvida ao console.
type DraftView struct {
	ID         string                       `json:"id"`
	State      domain.TransactionDraft      `json:"state"`
	Totals     transaction.Totals           `json:"totals"`
	Validation transaction.ValidationResult `json:"validation"`
	Query      string                       `json:"query"`
	Submitting bool                         `json:"submitting"`
	UpdatedAt  time.Time                    `json:"updatedAt"`
}

// SubmitResult é o resultado de uma submissão aceita pelo backend.
type SubmitResult struct {
	DraftID            string                     `json:"draftId"`
	IdempotencyKey     string                     `json:"idempotencyKey"`
	TransactionGroupID string                     `json:"transactionGroupId,omitempty"`
	Transactions       []domain.TransactionRecord `json:"transactions,omitempty"`
}

const maxSubmissionsLimit = 100

type session struct {
	id     string
	userID int64

	mu         sync.Mutex
	draft      *transaction.Draft
	index      *search.Index
	submitting bool
	updatedAt  time.Time
}

// Service mantém os rascunhos em composição, um por sessão do console.
type Service struct {
	catalog CatalogRepository
	txRepo  TransactionRepository
	logger  logger.Logger
	opts    Options
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService cria e retorna uma nova instância do serviço de rascunhos.
func NewService(catalog CatalogRepository, txRepo TransactionRepository, logger logger.Logger, opts Options) *Service {
	return &Service{
		catalog:  catalog,
		txRepo:   txRepo,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

// Create abre um rascunho novo, opcionalmente já com campos preenchidos.
func (s *Service) Create(ctx context.Context, userID int64, initial DraftPatch) (DraftView, error) {
	sess := &session{
		id:        uuid.New().String(),
		userID:    userID,
		draft:     transaction.NewDraft(),
		index:     search.NewIndex(s.catalog, s.logger, s.opts.Search),
		updatedAt: s.now(),
	}
	if err := s.applyPatch(sess, initial); err != nil {
		sess.index.Close()
		return DraftView{}, err
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("Rascunho criado.", map[string]interface{}{"draft_id": sess.id, "user_id": userID})
	return s.view(sess), nil
}

// Get devolve o estado atual do rascunho com totais e validação.
func (s *Service) Get(ctx context.Context, userID int64, id string) (DraftView, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return DraftView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// Update aplica alterações de campo. Trocar o tipo ou o ponto de venda limpa os
// campos dependentes e invalida a busca em andamento.
func (s *Service) Update(ctx context.Context, userID int64, id string, patch DraftPatch) (DraftView, error) {
	return s.mutate(userID, id, func(sess *session) error {
		return s.applyPatch(sess, patch)
	})
}

// Discard cancela o rascunho.
func (s *Service) Discard(ctx context.Context, userID int64, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok && sess.userID == userID {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok || sess.userID != userID {
		return draftNotFound(id)
	}
	sess.index.Close()
	s.logger.Info("Rascunho descartado.", map[string]interface{}{"draft_id": id})
	return nil
}

// Query registra uma digitação na busca de candidatos (com debounce).
func (s *Service) Query(ctx context.Context, userID int64, id string, query string) error {
	_, err := s.mutate(userID, id, func(sess *session) error {
		if !sess.draft.Type().Valid() {
			return apperror.NewValidationError("Selecione o tipo de transação antes de buscar.")
		}
		sess.index.Type(ctx, query)
		return nil
	})
	return err
}

// Candidates devolve os últimos resultados válidos da busca.
func (s *Service) Candidates(ctx context.Context, userID int64, id string) ([]domain.CandidateItem, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return nil, err
	}
	return sess.index.Results(), nil
}

// AddItem inclui um candidato no rascunho, somando à linha existente se houver.
func (s *Service) AddItem(ctx context.Context, userID int64, id string, req AddItemRequest) (DraftView, error) {
	return s.mutate(userID, id, func(sess *session) error {
		var candidate domain.CandidateItem
		switch {
		case req.CandidateID != nil:
			c, ok := sess.index.Select(*req.CandidateID)
			if !ok {
				return apperror.NewNotFoundError(fmt.Sprintf("Candidato %d não está nos resultados da busca.", *req.CandidateID))
			}
			candidate = c
		case req.Candidate != nil:
			sess.index.Reset()
			candidate = *req.Candidate
		default:
			return apperror.NewValidationError("Informe candidateId ou candidate.")
		}

		var (
			key domain.ItemKey
			err error
		)
		if req.Quantity != nil {
			key, err = sess.draft.AddItemQuantity(candidate, *req.Quantity)
		} else {
			key, err = sess.draft.AddItem(candidate)
		}
		if err != nil {
			return err
		}
		s.logger.Debug("Item incluído no rascunho.", map[string]interface{}{"draft_id": id, "key": key})
		return nil
	})
}

// UpdateItem define a quantidade de uma linha.
func (s *Service) UpdateItem(ctx context.Context, userID int64, id string, key domain.ItemKey, quantity int) (DraftView, error) {
	return s.mutate(userID, id, func(sess *session) error {
		return sess.draft.UpdateQuantity(key, quantity)
	})
}

// RemoveItem retira uma linha do rascunho.
func (s *Service) RemoveItem(ctx context.Context, userID int64, id string, key domain.ItemKey) (DraftView, error) {
	return s.mutate(userID, id, func(sess *session) error {
		if !sess.draft.RemoveItem(key) {
			return apperror.NewNotFoundError(fmt.Sprintf("Item %s não está no rascunho.", key))
		}
		return nil
	})
}

// Payload devolve o corpo que seria enviado ao backend. Exige rascunho válido.
func (s *Service) Payload(ctx context.Context, userID int64, id string) (domain.BulkTransactionRequest, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return domain.BulkTransactionRequest{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return transaction.Prepare(sess.draft.State())
}

// ListPointsOfSale devolve os pontos de venda para os seletores de origem e destino.
func (s *Service) ListPointsOfSale(ctx context.Context) ([]domain.PointOfSale, error) {
	return s.catalog.ListPointsOfSale(ctx)
}

// Submit valida, monta e envia o rascunho. Enquanto o envio está em andamento
// o rascunho não aceita outra submissão nem alterações. Em caso de falha o
// rascunho é preservado; em caso de sucesso é descartado.
func (s *Service) Submit(ctx context.Context, userID int64, id string) (SubmitResult, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return SubmitResult{}, err
	}

	sess.mu.Lock()
	if sess.submitting {
		sess.mu.Unlock()
		return SubmitResult{}, apperror.NewConflictError("Já existe uma submissão em andamento para este rascunho.")
	}
	state := sess.draft.State()
	req, err := transaction.Prepare(state)
	if err != nil {
		sess.mu.Unlock()
		s.opts.Metrics.IncSubmission(string(state.TransactionType), "rejected")
		s.logger.Debug("Submissão rejeitada pela validação.", map[string]interface{}{"draft_id": id, "fields": apperror.FieldsOf(err)})
		return SubmitResult{}, err
	}
	sess.submitting = true
	sess.mu.Unlock()

	idempotencyKey := uuid.New().String()
	entryID := s.beginJournal(ctx, sess, req, idempotencyKey)

	s.logger.Debug("Enviando transação em lote.", map[string]interface{}{
		"draft_id":         id,
		"transaction_type": req.TransactionType,
		"items":            len(req.Items),
		"idempotency_key":  idempotencyKey,
	})

	resp, err := s.txRepo.SubmitBulk(ctx, req, idempotencyKey)
	if err != nil {
		sess.mu.Lock()
		sess.submitting = false
		sess.mu.Unlock()

		s.completeJournal(ctx, entryID, domain.SubmissionFailed, "", err.Error())
		s.opts.Metrics.IncSubmission(string(req.TransactionType), "failed")
		s.logger.Error("Falha ao enviar transação em lote; rascunho preservado.", err)

		var appErr apperror.AppError
		if errors.As(err, &appErr) {
			return SubmitResult{}, err
		}
		return SubmitResult{}, apperror.NewInternalError("Falha interna ao enviar transação.", err)
	}

	s.completeJournal(ctx, entryID, domain.SubmissionSucceeded, resp.TransactionGroupID, "")
	s.opts.Metrics.IncSubmission(string(req.TransactionType), "succeeded")
	if s.opts.Invalidator != nil {
		s.opts.Invalidator.Invalidate(ctx)
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	sess.index.Close()

	s.logger.Info("Transação em lote enviada com sucesso.", map[string]interface{}{
		"draft_id":             id,
		"transaction_group_id": resp.TransactionGroupID,
	})
	return SubmitResult{
		DraftID:            id,
		IdempotencyKey:     idempotencyKey,
		TransactionGroupID: resp.TransactionGroupID,
		Transactions:       resp.Transactions,
	}, nil
}

// Submissions devolve as últimas submissões registradas do usuário. Sem diário a lista é vazia.
func (s *Service) Submissions(ctx context.Context, userID int64, limit int) ([]domain.SubmissionEntry, error) {
	if s.opts.Journal == nil {
		return []domain.SubmissionEntry{}, nil
	}
	if limit <= 0 || limit > maxSubmissionsLimit {
		limit = maxSubmissionsLimit
	}
	return s.opts.Journal.ListByUser(ctx, userID, limit)
}

// Sweep descarta rascunhos sem alteração há mais de maxIdle. Devolve quantos foram removidos.
func (s *Service) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := !sess.submitting && sess.updatedAt.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.index.Close()
	}
	if len(stale) > 0 {
		s.logger.Info("Rascunhos ociosos descartados.", map[string]interface{}{"count": len(stale)})
	}
	return len(stale)
}

// session devolve o rascunho do usuário. Rascunho de outro usuário responde
// como inexistente, sem revelar que o id existe.
func (s *Service) session(userID int64, id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.userID != userID {
		return nil, draftNotFound(id)
	}
	return sess, nil
}

func draftNotFound(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Rascunho %s não existe.", id))
}

func (s *Service) mutate(userID int64, id string, fn func(sess *session) error) (DraftView, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return DraftView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.submitting {
		return DraftView{}, apperror.NewConflictError("O rascunho está sendo enviado e não pode ser alterado.")
	}
	if err := fn(sess); err != nil {
		return DraftView{}, err
	}
	sess.updatedAt = s.now()
	return s.view(sess), nil
}

// applyPatch aplica o tipo primeiro, pois a troca de tipo limpa os demais campos.
// O patch é validado por inteiro antes: ou tudo é aplicado, ou nada.
func (s *Service) applyPatch(sess *session, patch DraftPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	scopeChanged := false

	if patch.TransactionType != nil {
		changed, err := sess.draft.SetType(*patch.TransactionType)
		if err != nil {
			return err
		}
		scopeChanged = scopeChanged || changed
	}
	if patch.PointOfSaleID != nil {
		scopeChanged = sess.draft.SetPointOfSale(*patch.PointOfSaleID) || scopeChanged
	}
	if patch.DestinationPointOfSaleID != nil {
		sess.draft.SetDestination(*patch.DestinationPointOfSaleID)
	}
	if patch.PaymentMethod != nil {
		if err := sess.draft.SetPaymentMethod(*patch.PaymentMethod); err != nil {
			return err
		}
	}
	if patch.Discount != nil {
		sess.draft.SetDiscount(*patch.Discount)
	}
	if patch.Remarks != nil {
		sess.draft.SetRemarks(*patch.Remarks)
	}

	if scopeChanged {
		sess.index.SetScope(search.Scope{
			TransactionType: sess.draft.Type(),
			PointOfSaleID:   sess.draft.PointOfSaleID(),
		})
	}
	return nil
}

func (s *Service) view(sess *session) DraftView {
	state := sess.draft.State()
	return DraftView{
		ID:         sess.id,
		State:      state,
		Totals:     transaction.Price(state),
		Validation: transaction.Validate(state),
		Query:      sess.index.Query(),
		Submitting: sess.submitting,
		UpdatedAt:  sess.updatedAt,
	}
}

// beginJournal devolve "" quando o diário está desativado ou falhou; o envio segue mesmo assim.
func (s *Service) beginJournal(ctx context.Context, sess *session, req domain.BulkTransactionRequest, idempotencyKey string) string {
	if s.opts.Journal == nil {
		return ""
	}
	payload, err := json.Marshal(req)
	if err != nil {
		s.logger.Warn("Falha ao serializar payload para o diário.", map[string]interface{}{"error": err.Error()})
		return ""
	}
	entry, err := s.opts.Journal.Begin(ctx, domain.SubmissionEntry{
		DraftID:         sess.id,
		IdempotencyKey:  idempotencyKey,
		UserID:          sess.userID,
		TransactionType: req.TransactionType,
		ItemCount:       len(req.Items),
		Payload:         payload,
	})
	if err != nil {
		s.logger.Warn("Falha ao registrar submissão no diário; seguindo com o envio.", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return entry.ID
}

func (s *Service) completeJournal(ctx context.Context, entryID string, status domain.SubmissionStatus, groupID, errorMessage string) {
	if s.opts.Journal == nil || entryID == "" {
		return
	}
	if err := s.opts.Journal.Complete(context.WithoutCancel(ctx), entryID, status, groupID, errorMessage); err != nil {
		s.logger.Warn("Falha ao finalizar submissão no diário.", map[string]interface{}{"id": entryID, "error": err.Error()})
	}
}
