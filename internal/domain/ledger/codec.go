// Package ledger contiene los servicios puros del motor de stock: el
// códec del campo encoded_meta y los plegados que derivan inventario,
// saldos y alertas a partir del log de movimientos. Nada aquí toca la
// base de datos ni tiene efectos secundarios.
package ledger

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// El almacén genérico no tiene columnas para los atributos del movimiento,
// así que viajan empaquetados en un solo campo de texto. Formato v2:
//
//	v2|ct=Laptop|it=Latitude+7420|lc=Main+Office|uc=50000|...
//
// Tokens k=v separados por "|", precedidos por la etiqueta de versión.
// Strings con escaping de query (espacio como "+", el resto con
// percent-encoding), números en decimal plano, fechas en ISO; los
// campos opcionales ausentes se omiten. El formato heredado
// (prefijo META: + JSON con schema stock-meta) sigue siendo legible.

// Etiquetas de formato en el campo encoded_meta.
const (
	metaVersionTag  = "v2"
	legacyPrefix    = "META:"
	legacySchemaTag = "stock-meta"
)

// Claves fijas del formato v2, una por campo. La tabla es exhaustiva:
// una clave desconocida se ignora al decodificar (compatibilidad hacia
// adelante), pero nunca se emite.
const (
	keyCategory        = "ct"
	keyItemName        = "it"
	keySerialNumber    = "sn"
	keyLocation        = "lc"
	keyVendor          = "vd"
	keyReferenceNumber = "rf"
	keyNote            = "nt"
	keyCreatedBy       = "cb"
	keyCreatedDate     = "cd"
	keyUnitCost        = "uc"
	keyTotalCost       = "tc"
	keyQuantityHint    = "qh"
	keyTransactionDate = "td"
	keyReasonType      = "rt"
	keyFromLocation    = "fl"
	keyToLocation      = "tl"
	keyScrapVendor     = "sv"
	keyApprovalStatus  = "as"
	keyApprovedBy      = "ab"
	keyApprovedDate    = "ad"
)

const dateLayout = "2006-01-02"

// EncodeMeta serializa los atributos del movimiento al formato v2.
// Función pura; el orden de los tokens es fijo para que la codificación
// sea determinista byte a byte.
func EncodeMeta(meta *entity.StockMovementMeta) string {
	tokens := make([]string, 0, 20)
	tokens = append(tokens, metaVersionTag)

	putStr := func(key, val string) {
		if val != "" {
			tokens = append(tokens, key+"="+url.QueryEscape(val))
		}
	}
	putDec := func(key string, val *decimal.Decimal) {
		if val != nil {
			tokens = append(tokens, key+"="+val.String())
		}
	}

	putStr(keyCategory, meta.Category)
	putStr(keyItemName, meta.ItemName)
	putStr(keySerialNumber, meta.SerialNumber)
	putStr(keyLocation, meta.Location)
	putStr(keyVendor, meta.Vendor)
	putStr(keyReferenceNumber, meta.ReferenceNumber)
	putStr(keyNote, meta.Note)
	putStr(keyCreatedBy, meta.CreatedBy)
	if !meta.CreatedDate.IsZero() {
		tokens = append(tokens, keyCreatedDate+"="+url.QueryEscape(meta.CreatedDate.UTC().Format(time.RFC3339)))
	}
	putDec(keyUnitCost, meta.UnitCost)
	putDec(keyTotalCost, meta.TotalCost)
	if meta.QuantityHint != nil {
		tokens = append(tokens, keyQuantityHint+"="+strconv.FormatInt(*meta.QuantityHint, 10))
	}
	if !meta.TransactionDate.IsZero() {
		tokens = append(tokens, keyTransactionDate+"="+meta.TransactionDate.Format(dateLayout))
	}
	putStr(keyReasonType, meta.ReasonType)
	putStr(keyFromLocation, meta.FromLocation)
	putStr(keyToLocation, meta.ToLocation)
	putStr(keyScrapVendor, meta.ScrapVendor)
	putStr(keyApprovalStatus, meta.ApprovalStatus)
	putStr(keyApprovedBy, meta.ApprovedBy)
	if meta.ApprovedDate != nil {
		tokens = append(tokens, keyApprovedDate+"="+url.QueryEscape(meta.ApprovedDate.UTC().Format(time.RFC3339)))
	}

	return strings.Join(tokens, "|")
}

// DecodeMeta intenta decodificar encoded_meta: primero el formato v2,
// después el heredado. Devuelve nil (no error) si el contenido no es un
// registro del ledger: faltan los campos de identidad o la etiqueta de
// versión no se reconoce. Registros de otros módulos (p. ej. entregas de
// activos) caen aquí y quedan fuera de todo cálculo derivado.
func DecodeMeta(encoded string) *entity.StockMovementMeta {
	if meta := decodeV2(encoded); meta != nil {
		return meta
	}
	return decodeLegacy(encoded)
}

func decodeV2(encoded string) *entity.StockMovementMeta {
	tokens := strings.Split(encoded, "|")
	if len(tokens) == 0 || tokens[0] != metaVersionTag {
		return nil
	}

	meta := &entity.StockMovementMeta{ApprovalStatus: entity.StatusApproved}
	for _, token := range tokens[1:] {
		key, raw, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		switch key {
		case keyCategory:
			meta.Category = unescape(raw)
		case keyItemName:
			meta.ItemName = unescape(raw)
		case keySerialNumber:
			meta.SerialNumber = unescape(raw)
		case keyLocation:
			meta.Location = unescape(raw)
		case keyVendor:
			meta.Vendor = unescape(raw)
		case keyReferenceNumber:
			meta.ReferenceNumber = unescape(raw)
		case keyNote:
			meta.Note = unescape(raw)
		case keyCreatedBy:
			meta.CreatedBy = unescape(raw)
		case keyCreatedDate:
			meta.CreatedDate = parseTimestamp(unescape(raw))
		case keyUnitCost:
			meta.UnitCost = parseDecimal(raw)
		case keyTotalCost:
			meta.TotalCost = parseDecimal(raw)
		case keyQuantityHint:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				meta.QuantityHint = &n
			}
		case keyTransactionDate:
			meta.TransactionDate = parseDate(raw)
		case keyReasonType:
			meta.ReasonType = unescape(raw)
		case keyFromLocation:
			meta.FromLocation = unescape(raw)
		case keyToLocation:
			meta.ToLocation = unescape(raw)
		case keyScrapVendor:
			meta.ScrapVendor = unescape(raw)
		case keyApprovalStatus:
			meta.ApprovalStatus = unescape(raw)
		case keyApprovedBy:
			meta.ApprovedBy = unescape(raw)
		case keyApprovedDate:
			if ts := parseTimestamp(unescape(raw)); !ts.IsZero() {
				meta.ApprovedDate = &ts
			}
		}
		// claves desconocidas: se ignoran
	}

	if meta.Category == "" || meta.ItemName == "" || meta.Location == "" {
		return nil
	}
	return meta
}

// legacyMeta es el formato heredado: un objeto JSON detrás del prefijo
// META:. Los numéricos van como RawMessage para tolerar blobs antiguos
// con números entre comillas o mal formados (caen a ausente, nunca error).
type legacyMeta struct {
	Schema          string          `json:"schema"`
	Category        string          `json:"category"`
	ItemName        string          `json:"itemName"`
	SerialNumber    string          `json:"serialNumber"`
	Location        string          `json:"location"`
	Vendor          string          `json:"vendor"`
	ReferenceNumber string          `json:"referenceNumber"`
	Note            string          `json:"note"`
	CreatedBy       string          `json:"createdBy"`
	CreatedDate     string          `json:"createdDate"`
	UnitCost        json.RawMessage `json:"unitCost"`
	TotalCost       json.RawMessage `json:"totalCost"`
	Quantity        json.RawMessage `json:"quantity"`
	TransactionDate string          `json:"transactionDate"`
	ReasonType      string          `json:"reasonType"`
	FromLocation    string          `json:"fromLocation"`
	ToLocation      string          `json:"toLocation"`
	ScrapVendor     string          `json:"scrapVendor"`
	ApprovalStatus  string          `json:"approvalStatus"`
	ApprovedBy      string          `json:"approvedBy"`
	ApprovedDate    string          `json:"approvedDate"`
}

func decodeLegacy(encoded string) *entity.StockMovementMeta {
	if !strings.HasPrefix(encoded, legacyPrefix) {
		return nil
	}
	var blob legacyMeta
	if err := json.Unmarshal([]byte(strings.TrimPrefix(encoded, legacyPrefix)), &blob); err != nil {
		return nil
	}
	if blob.Schema != legacySchemaTag {
		return nil
	}
	if blob.Category == "" || blob.ItemName == "" || blob.Location == "" {
		return nil
	}

	meta := &entity.StockMovementMeta{
		Category:        blob.Category,
		ItemName:        blob.ItemName,
		SerialNumber:    blob.SerialNumber,
		Location:        blob.Location,
		Vendor:          blob.Vendor,
		ReferenceNumber: blob.ReferenceNumber,
		Note:            blob.Note,
		CreatedBy:       blob.CreatedBy,
		CreatedDate:     parseTimestamp(blob.CreatedDate),
		UnitCost:        parseJSONDecimal(blob.UnitCost),
		TotalCost:       parseJSONDecimal(blob.TotalCost),
		TransactionDate: parseDate(blob.TransactionDate),
		ReasonType:      blob.ReasonType,
		FromLocation:    blob.FromLocation,
		ToLocation:      blob.ToLocation,
		ScrapVendor:     blob.ScrapVendor,
		ApprovalStatus:  blob.ApprovalStatus,
		ApprovedBy:      blob.ApprovedBy,
	}
	if meta.ApprovalStatus == "" {
		meta.ApprovalStatus = entity.StatusApproved
	}
	if qty := parseJSONDecimal(blob.Quantity); qty != nil && qty.IsInteger() {
		n := qty.IntPart()
		meta.QuantityHint = &n
	}
	if ts := parseTimestamp(blob.ApprovedDate); !ts.IsZero() {
		meta.ApprovedDate = &ts
	}
	return meta
}

func unescape(raw string) string {
	s, err := url.QueryUnescape(raw)
	if err != nil {
		// percent-encoding corrupto: conservar el valor crudo
		return raw
	}
	return s
}

// parseDecimal es tolerante: un numérico mal formado decodifica como
// ausente, nunca como error.
func parseDecimal(raw string) *decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func parseJSONDecimal(raw json.RawMessage) *decimal.Decimal {
	if len(raw) == 0 {
		return nil
	}
	return parseDecimal(strings.Trim(strings.TrimSpace(string(raw)), `"`))
}

func parseDate(raw string) time.Time {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}

func parseTimestamp(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return parseDate(raw)
}
