package shapes

// Ability variants. Sizes are map pixels at mapScale 1.

var zoneSpecs = []zoneSpec{
	{Tool: "brimstone_sky_smoke", Radius: 32, Color: "#c0733b"},
	{Tool: "omen_dark_cover", Radius: 32, Color: "#5b4a9e"},
	{Tool: "astra_nebula", Radius: 32, Color: "#9d5fd6"},
	{Tool: "clove_ruse", Radius: 30, Color: "#d46bb6"},
	{Tool: "harbor_cove", Radius: 36, Color: "#2a9d8f", Dashed: true},
	{Tool: "viper_snake_bite", Radius: 26, Color: "#3fbf4f"},
	{Tool: "killjoy_nanoswarm", Radius: 20, Color: "#f2c12e"},
	{Tool: "killjoy_lockdown", Radius: 120, Color: "#f2c12e", Dashed: true},
	{Tool: "sage_slow_orb", Radius: 40, Color: "#4fd1c5"},
	{Tool: "cypher_cyber_cage", Radius: 28, Color: "#d9d9d9"},
	{Tool: "brimstone_orbital_strike", Radius: 40, Color: "#e4572e"},
	{Tool: "kayo_zero_point", Radius: 100, Color: "#4a90e2", Dashed: true},
	{Tool: "deadlock_sonic_sensor", Radius: 50, Color: "#b8c4d6", Dashed: true},
	{Tool: "gekko_mosh_pit", Radius: 36, Color: "#a3e635"},
	{Tool: "fade_seize", Radius: 35, Color: "#3b3b58"},
	{Tool: "sova_recon_bolt", Radius: 150, Color: "#3b82f6", Dashed: true},
	{Tool: "vyse_razorvine", Radius: 34, Color: "#8e7cc3"},
}

var beamSpecs = []beamSpec{
	{Tool: "neon_fast_lane", Length: 350, Width: 30, Handle: HandleFixed, Style: BeamTwinWall, Color: "#3ab4f2"},
	{Tool: "sage_barrier_orb", Length: 60, Width: 12, Handle: HandleFixed, Style: BeamRect, Color: "#4fd1c5"},
	{Tool: "sova_hunters_fury", Length: 600, Width: 24, Handle: HandleFixed, Style: BeamRect, Color: "#3b82f6"},
	{Tool: "breach_rolling_thunder", Length: 250, Width: 160, Handle: HandleFixed, Style: BeamRect, Color: "#f59e0b"},
	{Tool: "iso_contingency", Length: 180, Width: 40, Handle: HandleFixed, Style: BeamRect, Color: "#7c3aed"},

	{Tool: "breach_fault_line", Length: 300, Width: 28, Handle: HandleTrack, Style: BeamRect, Color: "#f59e0b"},
	{Tool: "viper_toxic_screen", Length: 500, Width: 6, Handle: HandleTrack, Style: BeamWall, Color: "#3fbf4f"},
	{Tool: "phoenix_blaze", Length: 200, Width: 8, Handle: HandleTrack, Style: BeamWall, Color: "#f97316"},
	{Tool: "harbor_high_tide", Length: 450, Width: 8, Handle: HandleTrack, Style: BeamWall, Color: "#2a9d8f"},
	{Tool: "astra_cosmic_divide", Length: 1200, Width: 6, Handle: HandleTrack, Style: BeamWall, Color: "#9d5fd6"},
	{Tool: "cypher_trapwire", Length: 90, Width: 2, Handle: HandleTrack, Style: BeamWire, Color: "#d9d9d9"},
}

var fanSpecs = []fanSpec{
	{Tool: "deadlock_barrier_mesh", Offsets: [fanArms]float64{0, 90, 180, 270}, MaxArm: 70, Width: 6, Color: "#b8c4d6"},
}

var polygonSpecs = []polygonSpec{
	{Tool: "area_polygon", Sides: 6, Radius: 60, Color: "#ff4655"},
	{Tool: "viper_pit_area", Sides: 6, Radius: 60, Color: "#3fbf4f"},
}
