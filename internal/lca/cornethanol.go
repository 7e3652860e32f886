package lca

// Units used by the corn-to-ethanol pathway.
const (
	unitTHa        = "t/ha"
	unitPercent    = "%"
	unitKgHa       = "kg/ha"
	unitKgNHa      = "kg N/ha"
	unitKgCO2eKg   = "kg CO2e/kg"
	unitKgCO2eHa   = "kg CO2e/ha"
	unitKgCO2eTWet = "kg CO2e/t wet corn"
	unitKgCO2eTDry = "kg CO2e/t dry corn"
	unitKgCO2eTEth = "kg CO2e/t ethanol"
	unitKgCO2eYr   = "kg CO2e/yr"
	unitGMJ        = "g CO2e/MJ"
	unitMJ         = "MJ"
	unitMJKg       = "MJ/kg"
	unitT          = "t"
	unitRatio      = "ratio"
)

// Factor-store entries that supply emission-factor defaults.
const (
	factorSeed           = "iscc-seed-corn"
	factorNFertilizer    = "iscc-n-fertilizer"
	factorP2O5           = "iscc-p2o5-fertilizer"
	factorK2O            = "iscc-k2o-fertilizer"
	factorCaO            = "iscc-cao-fertilizer"
	factorHerbicide      = "iscc-herbicide"
	factorPesticide      = "iscc-pesticide"
	factorDiesel         = "iscc-diesel"
	factorElectricity    = "iscc-electricity-eu"
	factorNaturalGas     = "iscc-natural-gas"
	factorYeast          = "iscc-yeast"
	factorFreshWater     = "iscc-fresh-water"
	factorEnzymes        = "iscc-enzymes"
	factorSulfuricAcid   = "iscc-sulfuric-acid"
	factorSodiumHydroxid = "iscc-sodium-hydroxide"
	factorUrea           = "iscc-urea"
)

// Node names read back into LCAResult.
const (
	NodeEEC              = "eec"
	NodeEP               = "ep"
	NodeETD              = "etd"
	NodeEL               = "el"
	NodeAllocationFactor = "allocationFactor"
	NodeEECAllocated     = "eecAllocated"
	NodeEPAllocated      = "epAllocated"
	NodeETDAllocated     = "etdAllocated"
	NodeTotal            = "totalEmission"
	NodeSavings          = "ghgSavings"

	InputECCR           = "eccr"
	InputFossilBaseline = "fossilBaseline"
	InputGWPN2O         = "gwpN2O"
)

//nolint:funlen // Declarative input table.
func cornEthanolInputs() []Input {
	return []Input{
		// Cultivation, per hectare and year.
		{Name: "cornWet", Stage: StageCultivation, Unit: unitTHa, Required: true},
		{Name: "moistureContent", Stage: StageCultivation, Unit: unitPercent, Default: 15.5},
		{Name: "seedsAmount", Stage: StageCultivation, Unit: unitKgHa, Default: 25},
		{Name: "seedEmissionFactor", Stage: StageCultivation, Unit: unitKgCO2eKg, Default: 0.4133, FactorID: factorSeed},
		{Name: "nFertilizer", Stage: StageCultivation, Unit: unitKgNHa},
		{Name: "nFertilizerEF", Stage: StageCultivation, Unit: "kg CO2e/kg N", Default: 5.8806, FactorID: factorNFertilizer},
		{Name: "p2o5Fertilizer", Stage: StageCultivation, Unit: "kg P2O5/ha"},
		{Name: "p2o5FertilizerEF", Stage: StageCultivation, Unit: "kg CO2e/kg P2O5", Default: 1.0107, FactorID: factorP2O5},
		{Name: "k2oFertilizer", Stage: StageCultivation, Unit: "kg K2O/ha"},
		{Name: "k2oFertilizerEF", Stage: StageCultivation, Unit: "kg CO2e/kg K2O", Default: 0.5761, FactorID: factorK2O},
		{Name: "caoFertilizer", Stage: StageCultivation, Unit: "kg CaO/ha"},
		{Name: "caoFertilizerEF", Stage: StageCultivation, Unit: "kg CO2e/kg CaO", Default: 0.1303, FactorID: factorCaO},
		{Name: "manureN", Stage: StageCultivation, Unit: unitKgNHa},
		{Name: "residueN", Stage: StageCultivation, Unit: unitKgNHa},
		// IPCC 2006 Vol.4 Ch.11 defaults.
		{Name: "efDirect", Stage: StageCultivation, Unit: "kg N2O-N/kg N", Default: 0.01},
		{Name: "fracGasfSynth", Stage: StageCultivation, Unit: unitRatio, Default: 0.1},
		{Name: "fracGasmOrg", Stage: StageCultivation, Unit: unitRatio, Default: 0.2},
		{Name: "efDeposition", Stage: StageCultivation, Unit: "kg N2O-N/kg N", Default: 0.01},
		{Name: "fracLeach", Stage: StageCultivation, Unit: unitRatio, Default: 0.3},
		{Name: "efLeach", Stage: StageCultivation, Unit: "kg N2O-N/kg N", Default: 0.0075},
		{Name: InputGWPN2O, Stage: StageCultivation, Unit: "kg CO2e/kg N2O", Default: 265},
		{Name: "herbicideAmount", Stage: StageCultivation, Unit: unitKgHa},
		{Name: "herbicideEF", Stage: StageCultivation, Unit: unitKgCO2eKg, Default: 10.9713, FactorID: factorHerbicide},
		{Name: "pesticideAmount", Stage: StageCultivation, Unit: unitKgHa},
		{Name: "pesticideEF", Stage: StageCultivation, Unit: unitKgCO2eKg, Default: 10.9713, FactorID: factorPesticide},
		{Name: "electricityCultivation", Stage: StageCultivation, Unit: "kWh/ha"},
		{Name: "electricityCultivationEF", Stage: StageCultivation, Unit: "kg CO2e/kWh", Default: 0.452, FactorID: factorElectricity},
		{Name: "dieselCultivation", Stage: StageCultivation, Unit: "l/ha"},
		{Name: "dieselCultivationEF", Stage: StageCultivation, Unit: "kg CO2e/l", Default: 3.14, FactorID: factorDiesel},

		// Land-use change.
		{Name: "socActual", Stage: StageLandUse, Unit: "t C/ha"},
		{Name: "socReference", Stage: StageLandUse, Unit: "t C/ha"},

		// Transport: corn to plant, ethanol to depot.
		{Name: "totalTransported", Stage: StageTransport, Unit: "t wet corn/yr"},
		{Name: "maxLoad", Stage: StageTransport, Unit: "t/trip", Default: 25},
		{Name: "distanceLoaded", Stage: StageTransport, Unit: "km"},
		{Name: "fuelLoaded", Stage: StageTransport, Unit: "l/km", Default: 0.35},
		{Name: "distanceEmpty", Stage: StageTransport, Unit: "km"},
		{Name: "fuelEmpty", Stage: StageTransport, Unit: "l/km", Default: 0.25},
		{Name: "transportFuelEF", Stage: StageTransport, Unit: "kg CO2e/l", Default: 3.14, FactorID: factorDiesel},
		{Name: "ethanolTransported", Stage: StageTransport, Unit: "t/yr"},
		{Name: "ethanolDistance", Stage: StageTransport, Unit: "km"},
		{Name: "ethanolTransportEF", Stage: StageTransport, Unit: "kg CO2e/t km"},

		// Processing, per plant and year.
		{Name: "cornInput", Stage: StageProcessing, Unit: "t wet corn/yr", Required: true},
		{Name: "ethanolOutput", Stage: StageProcessing, Unit: "t/yr", Required: true},
		{Name: "ethanolLHV", Stage: StageProcessing, Unit: unitMJKg, Default: 26.8},
		{Name: "electricityProcessing", Stage: StageProcessing, Unit: "kWh/yr"},
		{Name: "electricityProcessingEF", Stage: StageProcessing, Unit: "kg CO2e/kWh", Default: 0.452, FactorID: factorElectricity},
		{Name: "naturalGas", Stage: StageProcessing, Unit: "MJ/yr"},
		{Name: "naturalGasEF", Stage: StageProcessing, Unit: "kg CO2e/MJ", Default: 0.0666, FactorID: factorNaturalGas},
		{Name: "yeast", Stage: StageProcessing, Unit: "kg/yr"},
		{Name: "yeastEF", Stage: StageProcessing, Unit: unitKgCO2eKg, Default: 0.49, FactorID: factorYeast},
		{Name: "freshWater", Stage: StageProcessing, Unit: "m3/yr"},
		{Name: "freshWaterEF", Stage: StageProcessing, Unit: "kg CO2e/m3", Default: 0.0004, FactorID: factorFreshWater},
		{Name: "enzymes", Stage: StageProcessing, Unit: "kg/yr"},
		{Name: "enzymesEF", Stage: StageProcessing, Unit: unitKgCO2eKg, Default: 2.89, FactorID: factorEnzymes},
		{Name: "sulfuricAcid", Stage: StageProcessing, Unit: "kg/yr"},
		{Name: "sulfuricAcidEF", Stage: StageProcessing, Unit: unitKgCO2eKg, Default: 0.2135, FactorID: factorSulfuricAcid},
		{Name: "sodiumHydroxide", Stage: StageProcessing, Unit: "kg/yr"},
		{Name: "sodiumHydroxideEF", Stage: StageProcessing, Unit: unitKgCO2eKg, Default: 0.4695, FactorID: factorSodiumHydroxid},
		{Name: "urea", Stage: StageProcessing, Unit: "kg/yr"},
		{Name: "ureaEF", Stage: StageProcessing, Unit: unitKgCO2eKg, Default: 3.3, FactorID: factorUrea},

		// Co-products.
		{Name: "cornOilMass", Stage: StageAllocation, Unit: "t dry/yr"},
		{Name: "cornOilLHV", Stage: StageAllocation, Unit: unitMJKg, Default: 37},
		{Name: "ddgsMass", Stage: StageAllocation, Unit: "t dry/yr"},
		{Name: "ddgsLHV", Stage: StageAllocation, Unit: unitMJKg, Default: 16},
		{Name: "wdgMass", Stage: StageAllocation, Unit: "t wet/yr"},
		{Name: "wdgMoisture", Stage: StageAllocation, Unit: unitPercent, Default: 65},
		{Name: "wdgLHV", Stage: StageAllocation, Unit: unitMJKg, Default: 16},
		{Name: "syrupMass", Stage: StageAllocation, Unit: "t wet/yr"},
		{Name: "syrupMoisture", Stage: StageAllocation, Unit: unitPercent, Default: 70},
		{Name: "syrupLHV", Stage: StageAllocation, Unit: unitMJKg, Default: 15},

		// Aggregation.
		{Name: InputECCR, Stage: StageAggregation, Unit: unitGMJ},
		{Name: InputFossilBaseline, Stage: StageAggregation, Unit: unitGMJ, Default: DefaultFossilBaseline},
	}
}

// Expressions use explicit parentheses for every chain of same-precedence
// operators and safeDiv for every division by a variable.
//
//nolint:funlen // Declarative node table.
func cornEthanolNodes(mode FormulaMode) []Node {
	volatilization := "(nFertilizer * fracGasfSynth) + (((manureN + (residueN * fracGasmOrg)) * efDeposition) * (44 / 28))"
	lucPerTDry := "(safeDiv(totalLUCCO2EmissionsHaYr, cornWet) / 1) - (moistureContent / 100)"
	if mode == FormulaMethodology {
		volatilization = "(((nFertilizer * fracGasfSynth) + (manureN * fracGasmOrg)) * efDeposition) * (44 / 28)"
		lucPerTDry = "safeDiv(deltaSOC, 1 - (moistureContent / 100))"
	}

	return []Node{
		// Cultivation (EEC).
		{Name: "cornDry", Stage: StageCultivation, Unit: unitTHa,
			Expression: "cornWet - ((cornWet * moistureContent) / 100)"},
		{Name: "seedsEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "seedsAmount * seedEmissionFactor"},
		{Name: "seedsEmissionsTWet", Stage: StageCultivation, Unit: unitKgCO2eTWet,
			Expression: "safeDiv(seedsEmissionsHa, cornWet)"},
		{Name: "nFertilizerEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "nFertilizer * nFertilizerEF"},
		{Name: "p2o5EmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "p2o5Fertilizer * p2o5FertilizerEF"},
		{Name: "k2oEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "k2oFertilizer * k2oFertilizerEF"},
		{Name: "caoEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "caoFertilizer * caoFertilizerEF"},
		{Name: "fertilizerEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "nFertilizerEmissionsHa + p2o5EmissionsHa + k2oEmissionsHa + caoEmissionsHa"},
		{Name: "fertilizerEmissionsTWet", Stage: StageCultivation, Unit: unitKgCO2eTWet,
			Expression: "safeDiv(fertilizerEmissionsHa, cornWet)"},
		{Name: "directN2O", Stage: StageCultivation, Unit: "kg N2O/ha",
			Expression: "((nFertilizer + manureN) * efDirect) * (44 / 28)"},
		{Name: "indirectN2OVolatilization", Stage: StageCultivation, Unit: "kg N2O/ha",
			Expression: volatilization},
		{Name: "indirectN2OLeaching", Stage: StageCultivation, Unit: "kg N2O/ha",
			Expression: "(((nFertilizer + manureN + residueN) * fracLeach) * efLeach) * (44 / 28)"},
		{Name: "totalN2OHa", Stage: StageCultivation, Unit: "kg N2O/ha",
			Expression: "directN2O + indirectN2OVolatilization + indirectN2OLeaching"},
		{Name: "fieldN2OEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "totalN2OHa * gwpN2O"},
		{Name: "fieldN2OEmissionsTWet", Stage: StageCultivation, Unit: unitKgCO2eTWet,
			Expression: "safeDiv(fieldN2OEmissionsHa, cornWet)"},
		{Name: "herbicideEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "herbicideAmount * herbicideEF"},
		{Name: "herbicideEmissionsTWet", Stage: StageCultivation, Unit: unitKgCO2eTWet,
			Expression: "safeDiv(herbicideEmissionsHa, cornWet)"},
		{Name: "pesticideEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "pesticideAmount * pesticideEF"},
		{Name: "pesticideEmissionsTWet", Stage: StageCultivation, Unit: unitKgCO2eTWet,
			Expression: "safeDiv(pesticideEmissionsHa, cornWet)"},
		{Name: "electricityCultivationEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "electricityCultivation * electricityCultivationEF"},
		{Name: "electricityCultivationEmissionsTWet", Stage: StageCultivation, Unit: unitKgCO2eTWet,
			Expression: "safeDiv(electricityCultivationEmissionsHa, cornWet)"},
		{Name: "dieselCultivationEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "dieselCultivation * dieselCultivationEF"},
		{Name: "dieselCultivationEmissionsTWet", Stage: StageCultivation, Unit: unitKgCO2eTWet,
			Expression: "safeDiv(dieselCultivationEmissionsHa, cornWet)"},
		{Name: "cultivationEmissionsHa", Stage: StageCultivation, Unit: unitKgCO2eHa,
			Expression: "seedsEmissionsHa + fertilizerEmissionsHa + fieldN2OEmissionsHa + herbicideEmissionsHa + " +
				"pesticideEmissionsHa + electricityCultivationEmissionsHa + dieselCultivationEmissionsHa"},
		{Name: "cultivationEmissionsTWet", Stage: StageCultivation, Unit: unitKgCO2eTWet,
			Expression: "safeDiv(cultivationEmissionsHa, cornWet)"},
		{Name: "cultivationEmissionsTDry", Stage: StageCultivation, Unit: unitKgCO2eTDry,
			Expression: "safeDiv(cultivationEmissionsHa, cornDry)"},

		// Land-use change (EL), 20-year amortization, 3.664 t CO2 per t C.
		{Name: "totalLUCCO2EmissionsHaYr", Stage: StageLandUse, Unit: "t CO2/ha/yr",
			Expression: "((socActual - socReference) / 20) * 3.664"},
		{Name: "deltaSOC", Stage: StageLandUse, Unit: "t CO2/t wet corn",
			Expression: "safeDiv((socActual - socReference), (cornWet * 20)) * 3.664"},
		{Name: "totalLUCCO2EmissionsTDryCorn", Stage: StageLandUse, Unit: "t CO2/t dry corn",
			Expression: lucPerTDry},
		{Name: "lucEmissionsTDry", Stage: StageLandUse, Unit: unitKgCO2eTDry,
			Expression: "when((socActual - socReference), (totalLUCCO2EmissionsTDryCorn * 1000))"},

		// Feedstock conversion shared by EEC, EL and ETD.
		{Name: "cornInputDry", Stage: StageProcessing, Unit: "t dry corn/yr",
			Expression: "cornInput - ((cornInput * moistureContent) / 100)"},
		{Name: "feedstockFactor", Stage: StageProcessing, Unit: "t dry corn/t ethanol",
			Expression: "safeDiv(cornInputDry, ethanolOutput)"},
		{Name: "eecPerTEthanol", Stage: StageCultivation, Unit: unitKgCO2eTEth,
			Expression: "cultivationEmissionsTDry * feedstockFactor"},
		{Name: NodeEEC, Stage: StageCultivation, Unit: unitGMJ,
			Expression: "safeDiv((eecPerTEthanol * 1000), (ethanolLHV * 1000))"},
		{Name: "elPerTEthanol", Stage: StageLandUse, Unit: unitKgCO2eTEth,
			Expression: "lucEmissionsTDry * feedstockFactor"},
		{Name: NodeEL, Stage: StageLandUse, Unit: unitGMJ,
			Expression: "safeDiv((elPerTEthanol * 1000), (ethanolLHV * 1000))"},

		// Transport (ETD), round trips weighted by loaded and empty fuel use.
		{Name: "transportTrips", Stage: StageTransport, Unit: "trips/yr",
			Expression: "safeDiv(totalTransported, maxLoad)"},
		{Name: "fuelPerTrip", Stage: StageTransport, Unit: "l/trip",
			Expression: "(distanceLoaded * fuelLoaded) + (distanceEmpty * fuelEmpty)"},
		{Name: "upstreamTransportTotal", Stage: StageTransport, Unit: unitKgCO2eYr,
			Expression: "(transportTrips * fuelPerTrip) * transportFuelEF"},
		{Name: "transportedDry", Stage: StageTransport, Unit: "t dry corn/yr",
			Expression: "totalTransported - ((totalTransported * moistureContent) / 100)"},
		{Name: "upstreamTransportTDry", Stage: StageTransport, Unit: unitKgCO2eTDry,
			Expression: "safeDiv(upstreamTransportTotal, transportedDry)"},
		{Name: "upstreamTransportPerTEthanol", Stage: StageTransport, Unit: unitKgCO2eTEth,
			Expression: "upstreamTransportTDry * feedstockFactor"},
		{Name: "downstreamTransportTotal", Stage: StageTransport, Unit: unitKgCO2eYr,
			Expression: "(ethanolTransported * ethanolDistance) * ethanolTransportEF"},
		{Name: "downstreamTransportPerTEthanol", Stage: StageTransport, Unit: unitKgCO2eTEth,
			Expression: "safeDiv(downstreamTransportTotal, ethanolTransported)"},
		{Name: "transportPerTEthanol", Stage: StageTransport, Unit: unitKgCO2eTEth,
			Expression: "upstreamTransportPerTEthanol + downstreamTransportPerTEthanol"},
		{Name: NodeETD, Stage: StageTransport, Unit: unitGMJ,
			Expression: "safeDiv((transportPerTEthanol * 1000), (ethanolLHV * 1000))"},

		// Processing (EP).
		{Name: "electricityProcessingEmissions", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "electricityProcessing * electricityProcessingEF"},
		{Name: "naturalGasEmissions", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "naturalGas * naturalGasEF"},
		{Name: "yeastEmissions", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "yeast * yeastEF"},
		{Name: "freshWaterEmissions", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "freshWater * freshWaterEF"},
		{Name: "enzymesEmissions", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "enzymes * enzymesEF"},
		{Name: "sulfuricAcidEmissions", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "sulfuricAcid * sulfuricAcidEF"},
		{Name: "sodiumHydroxideEmissions", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "sodiumHydroxide * sodiumHydroxideEF"},
		{Name: "ureaEmissions", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "urea * ureaEF"},
		{Name: "processingEmissionsTotal", Stage: StageProcessing, Unit: unitKgCO2eYr,
			Expression: "electricityProcessingEmissions + naturalGasEmissions + yeastEmissions + freshWaterEmissions + " +
				"enzymesEmissions + sulfuricAcidEmissions + sodiumHydroxideEmissions + ureaEmissions"},
		{Name: "processingPerTEthanol", Stage: StageProcessing, Unit: unitKgCO2eTEth,
			Expression: "safeDiv(processingEmissionsTotal, ethanolOutput)"},
		{Name: NodeEP, Stage: StageProcessing, Unit: unitGMJ,
			Expression: "safeDiv((processingPerTEthanol * 1000), (ethanolLHV * 1000))"},

		// Energy allocation, computed once and applied to EEC, EP and ETD.
		{Name: "ethanolEnergy", Stage: StageAllocation, Unit: unitMJ,
			Expression: "(ethanolOutput * ethanolLHV) * 1000"},
		{Name: "cornOilEnergy", Stage: StageAllocation, Unit: unitMJ,
			Expression: "(cornOilMass * cornOilLHV) * 1000"},
		{Name: "ddgsEnergy", Stage: StageAllocation, Unit: unitMJ,
			Expression: "(ddgsMass * ddgsLHV) * 1000"},
		{Name: "wdgDry", Stage: StageAllocation, Unit: unitT,
			Expression: "wdgMass - ((wdgMass * wdgMoisture) / 100)"},
		{Name: "wdgEnergy", Stage: StageAllocation, Unit: unitMJ,
			Expression: "(wdgDry * wdgLHV) * 1000"},
		{Name: "syrupDry", Stage: StageAllocation, Unit: unitT,
			Expression: "syrupMass - ((syrupMass * syrupMoisture) / 100)"},
		{Name: "syrupEnergy", Stage: StageAllocation, Unit: unitMJ,
			Expression: "(syrupDry * syrupLHV) * 1000"},
		{Name: "totalEnergy", Stage: StageAllocation, Unit: unitMJ,
			Expression: "ethanolEnergy + cornOilEnergy + ddgsEnergy + wdgEnergy + syrupEnergy"},
		{Name: NodeAllocationFactor, Stage: StageAllocation, Unit: unitRatio,
			Expression: "allocationShare(ethanolEnergy, cornOilEnergy, ddgsEnergy, wdgEnergy, syrupEnergy)"},
		{Name: NodeEECAllocated, Stage: StageAllocation, Unit: unitGMJ,
			Expression: "eec * allocationFactor"},
		{Name: NodeEPAllocated, Stage: StageAllocation, Unit: unitGMJ,
			Expression: "ep * allocationFactor"},
		{Name: NodeETDAllocated, Stage: StageAllocation, Unit: unitGMJ,
			Expression: "etd * allocationFactor"},

		// Aggregation.
		{Name: "allocatedEmissions", Stage: StageAggregation, Unit: unitGMJ,
			Expression: "eecAllocated + epAllocated + etdAllocated"},
		{Name: NodeTotal, Stage: StageAggregation, Unit: unitGMJ,
			Expression: "(allocatedEmissions + el) - eccr"},
		{Name: NodeSavings, Stage: StageAggregation, Unit: unitPercent,
			Expression: "safeDiv((fossilBaseline - totalEmission), fossilBaseline) * 100"},
	}
}
