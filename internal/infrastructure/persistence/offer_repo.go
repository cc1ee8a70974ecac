package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/pkg/errcodes"
)

const offerColumns = `id, sequence_id, seller_id, seller_kind, seller, root_item_id, root_tpl, items,
	requirements, handbook_value, requirements_cost, summary_cost, start_time, end_time,
	loyalty_level, sell_in_one_piece, locked`

const upsertOffer = `
	INSERT INTO offers (` + offerColumns + `) VALUES (
		:id, :sequence_id, :seller_id, :seller_kind, :seller, :root_item_id, :root_tpl, :items,
		:requirements, :handbook_value, :requirements_cost, :summary_cost, :start_time, :end_time,
		:loyalty_level, :sell_in_one_piece, :locked
	)
	ON CONFLICT (id) DO UPDATE SET
		sequence_id = excluded.sequence_id,
		seller_id = excluded.seller_id,
		seller_kind = excluded.seller_kind,
		seller = excluded.seller,
		root_item_id = excluded.root_item_id,
		root_tpl = excluded.root_tpl,
		items = excluded.items,
		requirements = excluded.requirements,
		handbook_value = excluded.handbook_value,
		requirements_cost = excluded.requirements_cost,
		summary_cost = excluded.summary_cost,
		start_time = excluded.start_time,
		end_time = excluded.end_time,
		loyalty_level = excluded.loyalty_level,
		sell_in_one_piece = excluded.sell_in_one_piece,
		locked = excluded.locked`

// OfferRepository хранит копию активных лотов. Запросы пишутся с "?" и
// проходят через Rebind, поэтому работают и на pgx, и на sqlite.
type OfferRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Save inserts or replaces the offer.
func (r *OfferRepository) Save(ctx context.Context, offer entity.Offer) error {
	schema, err := fromOffer(offer)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode offer")
	}

	if _, err := r.db.NamedExecContext(ctx, upsertOffer, schema); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save offer")
	}

	return nil
}

// SaveBatch stores offers in one transaction.
func (r *OfferRepository) SaveBatch(ctx context.Context, offers []entity.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, o := range offers {
			schema, err := fromOffer(o)
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to encode offer")
			}

			if _, err := tx.NamedExecContext(ctx, upsertOffer, schema); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to save offer")
			}
		}

		return nil
	})
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (entity.Offer, error) {
	query := r.db.Rebind(`SELECT ` + offerColumns + ` FROM offers WHERE id = ?`)

	var schema offerSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Offer{}, domain.NewError(errcodes.OfferNotFound, "offer not found")
		}

		return entity.Offer{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get offer")
	}

	o, err := schema.toDomain()
	if err != nil {
		return entity.Offer{}, domain.WrapError(err, errcodes.InternalServerError, "failed to decode offer")
	}

	return o, nil
}

func (r *OfferRepository) ListBySeller(ctx context.Context, sellerID string) ([]entity.Offer, error) {
	query := r.db.Rebind(`SELECT ` + offerColumns + ` FROM offers WHERE seller_id = ? ORDER BY sequence_id ASC`)

	return r.list(ctx, query, sellerID)
}

// ListAll returns every stored offer ordered by sequence id.
func (r *OfferRepository) ListAll(ctx context.Context) ([]entity.Offer, error) {
	return r.list(ctx, `SELECT `+offerColumns+` FROM offers ORDER BY sequence_id ASC`)
}

func (r *OfferRepository) list(ctx context.Context, query string, args ...any) ([]entity.Offer, error) {
	var schemas []offerSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list offers")
	}

	result := make([]entity.Offer, 0, len(schemas))

	for _, s := range schemas {
		o, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode offer")
		}

		result = append(result, o)
	}

	return result, nil
}

func (r *OfferRepository) DeleteBySeller(ctx context.Context, sellerID string) error {
	query := r.db.Rebind(`DELETE FROM offers WHERE seller_id = ?`)

	if _, err := r.db.ExecContext(ctx, query, sellerID); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete seller offers")
	}

	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM offers WHERE id IN (?)`, ids)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to build delete")
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete offers")
	}

	return nil
}

func (r *OfferRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM offers`); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count offers")
	}

	return n, nil
}
