package value

// BaseClass is a node id of the item template hierarchy. Item templates point at
// their parent with `_parent`, base classes form the upper part of that tree.
type BaseClass = string

const (
	BaseClassWeapon           BaseClass = "5422acb9af1c889c16000029"
	BaseClassArmor            BaseClass = "5448e54d4bdc2dcc718b4568"
	BaseClassVest             BaseClass = "5448e5284bdc2dcb718b4567"
	BaseClassHeadwear         BaseClass = "5a341c4086f77401f2541505"
	BaseClassArmorPlate       BaseClass = "644120aa86ffbe10ee032b6f"
	BaseClassBuiltInInserts   BaseClass = "65649eb40bf0ed77b8044453"
	BaseClassArmoredEquipment BaseClass = "57bef4c42459772e8d35a53b"
	BaseClassFaceCover        BaseClass = "5a341c4686f77469e155819e"
	BaseClassMeds             BaseClass = "543be5664bdc2dd4348b4569"
	BaseClassMedkit           BaseClass = "5448f39d4bdc2d0a728b4568"
	BaseClassMedical          BaseClass = "5448f3ac4bdc2dce718b4569"
	BaseClassDrugs            BaseClass = "5448f3a14bdc2d27728b4569"
	BaseClassKey              BaseClass = "543be5e94bdc2df1348b4568"
	BaseClassKeyMechanical    BaseClass = "5c99f98d86f7745c314214b3"
	BaseClassKeycard          BaseClass = "5c164d2286f774194c5e69fa"
	BaseClassFoodDrink        BaseClass = "543be6674bdc2df1348b4569"
	BaseClassFood             BaseClass = "5448e8d04bdc2ddf718b4569"
	BaseClassDrink            BaseClass = "5448e8d64bdc2dce718b4568"
	BaseClassRepairKits       BaseClass = "616eb7aea207f41933308f46"
	BaseClassFuel             BaseClass = "5d650c3e815116009f6201d2"
	BaseClassAmmoBox          BaseClass = "543be5cb4bdc2deb348b4568"
	BaseClassAmmo             BaseClass = "5485a8684bdc2da71d8b4567"
	BaseClassMoney            BaseClass = "543be5dd4bdc2deb348b4569"
	BaseClassBarterItem       BaseClass = "5448eb774bdc2d0a728b4567"
	BaseClassInventory        BaseClass = "55d720f24bdc2d88028b456d"
	BaseClassPocket           BaseClass = "557596e64bdc2dc2118b4571"
)

// TemplateTypeItem is the `_type` of sellable templates; base class nodes use "Node".
const TemplateTypeItem = "Item"

// Slot ids with special meaning for the marketplace.
const (
	SlotCartridges     = "cartridges"
	SlotFaceShield     = "mod_equipment_000"
	SlotHideout        = "hideout"
	SlotFrontPlate     = "front_plate"
	SlotBackPlate      = "back_plate"
	SlotLeftSidePlate  = "left_side_plate"
	SlotRightSidePlate = "right_side_plate"
)

// ParentHideout marks top level items in trader assortments.
const ParentHideout = "hideout"
