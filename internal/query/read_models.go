package query

// Re-export read models from the readmodel package so API handlers only
// import the query side.
import "github.com/example/oms-backend/internal/readmodel"

type UserReadModel = readmodel.UserReadModel
type ProductReadModel = readmodel.ProductReadModel
type OrderItemReadModel = readmodel.OrderItemReadModel
type StatusHistoryEntry = readmodel.StatusHistoryEntry
type AddressReadModel = readmodel.AddressReadModel
type OrderReadModel = readmodel.OrderReadModel
type InventoryReadModel = readmodel.InventoryReadModel
